package main

import (
	"errors"
	"strings"
)

var errNoTargetColumn = errors.New("no option or product-name column found")

// Candidate header names, scanned in priority order.
var (
	optionColumnCandidates   = []string{"옵션정보", "등록옵션명", "옵션", "옵션1"}
	fallbackColumnCandidates = []string{"상품명", "등록상품명", "상품이름", "제품명"}

	recipientColumnCandidates = []string{"수취인명", "수취인", "수령인", "받는사람", "받는분", "이름", "성명"}
	addressColumnCandidates   = []string{"배송지주소", "수취인주소", "받는사람주소", "주소", "배송지"}
	phoneColumnCandidates     = []string{"수취인전화번호", "수취인휴대폰", "전화번호", "휴대폰번호", "전화", "휴대폰", "연락처"}
	quantityColumnCandidates  = []string{"주문수량", "수량"}
)

// normalizeHeaderCell strips whitespace and hyphens so "수취인 명" and
// "수취인-명" both resolve.
func normalizeHeaderCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// resolveColumn scans the candidate list in order; for each candidate an
// exact header match wins over a substring match, and the first hit ends the
// scan. Returns -1 when nothing resolves.
func resolveColumn(headers []string, candidates []string) int {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normalizeHeaderCell(h)
	}
	for _, cand := range candidates {
		for i, h := range norm {
			if h == cand {
				return i
			}
		}
		for i, h := range norm {
			if h != "" && strings.Contains(h, cand) {
				return i
			}
		}
	}
	return -1
}

// resolveOptionColumns locates the option-text column and the product-name
// fallback. Failing both is a file-level error; the file is skipped but the
// batch continues.
func resolveOptionColumns(headers []string) (optionCol, fallbackCol int, err error) {
	optionCol = resolveColumn(headers, optionColumnCandidates)
	fallbackCol = resolveColumn(headers, fallbackColumnCandidates)
	if optionCol < 0 && fallbackCol < 0 {
		return -1, -1, errNoTargetColumn
	}
	return optionCol, fallbackCol, nil
}

// deliveryColumns holds per-file column positions; -1 disables only the
// feature that needs the missing column.
type deliveryColumns struct {
	Recipient int
	Address   int
	Phone     int
	Quantity  int
}

func resolveDeliveryColumns(headers []string) deliveryColumns {
	return deliveryColumns{
		Recipient: resolveColumn(headers, recipientColumnCandidates),
		Address:   resolveColumn(headers, addressColumnCandidates),
		Phone:     resolveColumn(headers, phoneColumnCandidates),
		Quantity:  resolveColumn(headers, quantityColumnCandidates),
	}
}

// groupingEnabled reports whether this file can participate in combined-
// delivery detection at all.
func (d deliveryColumns) groupingEnabled() bool {
	return d.Recipient >= 0 && d.Address >= 0
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
