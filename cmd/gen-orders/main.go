package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	defaultOutput = "testdata/sample_orders.xlsx"
	defaultRows   = 120
	defaultSeed   = int64(20260901)
)

var headers = []string{"주문번호", "수취인명", "주소", "전화번호", "옵션정보", "수량"}

// Messy-but-realistic option strings, the shapes the parser has to survive:
// noise tags, brackets, arithmetic forms, verbose minced phrasings, mixed
// units, and the odd junk row.
var optionPool = []string{
	"국내산 깐마늘 1kg",
	"의성 깐마늘 (특대) 5kg",
	"깐마늘 10kg 업소용",
	"대서 깐마늘 2kg - 무료배송",
	"육쪽 깐마늘 1kg + 1kg",
	"다진 마늘 500g",
	"다진마늘 1kg x 1kg",
	"꼭지포함 다진 생마늘 2키로",
	"통마늘 3kg (선물용)",
	"통마늘 1kg + 1kg",
	"마늘쫑 1kg",
	"마늘쫑 2kg",
	"무뼈닭발 500g",
	"마늘닭발 2팩",
	"마늘가루 200그램",
	"마늘빠삭이 3봉",
	"오늘출발: 햇 통마늘 5키로",
	"깐마늘 소 1kg/선물포장",
	"옵션없음",
	"",
}

var namePool = []string{"김민준", "이서연", "박지훈", "최수아", "정도윤", "강하은", "조시우", "윤지아"}
var regionPool = []string{
	"서울시 강남구 테헤란로 %d",
	"부산시 해운대구 센텀로 %d",
	"대구시 수성구 들안로 %d",
	"경북 의성군 의성읍 중앙길 %d",
	"전남 무안군 무안로 %d",
}

func main() {
	outPath := flag.String("output", defaultOutput, "Output .xlsx path")
	rows := flag.Int("rows", defaultRows, "Number of order rows")
	seed := flag.Int64("seed", defaultSeed, "Deterministic generation seed")
	dupRate := flag.Float64("dup-rate", 0.15, "Fraction of rows that reuse a previous delivery identity")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	writeRow(f, sheet, 1, headers)

	type identity struct{ name, addr, phone string }
	var seen []identity
	for i := 0; i < *rows; i++ {
		var id identity
		if len(seen) > 0 && rng.Float64() < *dupRate {
			id = seen[rng.Intn(len(seen))]
		} else {
			id = identity{
				name:  namePool[rng.Intn(len(namePool))],
				addr:  fmt.Sprintf(regionPool[rng.Intn(len(regionPool))], rng.Intn(200)+1),
				phone: fmt.Sprintf("010-%04d-%04d", rng.Intn(10000), rng.Intn(10000)),
			}
			seen = append(seen, id)
		}
		rec := []string{
			fmt.Sprintf("ORD-%06d", i+1),
			id.name,
			id.addr,
			id.phone,
			optionPool[rng.Intn(len(optionPool))],
			fmt.Sprintf("%d", rng.Intn(4)+1),
		}
		writeRow(f, sheet, i+2, rec)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}
	if err := f.SaveAs(*outPath); err != nil {
		fatalf("save workbook: %v", err)
	}

	fmt.Printf("Output: %s\n", *outPath)
	fmt.Printf("Rows:   %d\n", *rows)
	fmt.Printf("Seed:   %d\n", *seed)
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		fatalf("cell name: %v", err)
	}
	vals := make([]interface{}, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		fatalf("write row: %v", err)
	}
}

func fatalf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
