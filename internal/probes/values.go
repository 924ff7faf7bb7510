package probes

import (
	"context"
	"fmt"
	"math/big"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/bartekus/featureprobe/internal/runner"
)

const bigLiteral = "123456789012345678901234567890"

// BigReport is what the arbitrary-precision probe observes.
type BigReport struct {
	Decimal   string
	Doubled   string
	FitsInt64 bool
}

func bigIntProbe() runner.Probe {
	return runner.Probe{
		Name: "bigint:literal",
		Doc:  "123456789012345678901234567890n",
		Action: func(context.Context) (any, error) {
			b, ok := new(big.Int).SetString(bigLiteral, 10)
			if !ok {
				return nil, fmt.Errorf("cannot parse %s", bigLiteral)
			}
			doubled := new(big.Int).Add(b, b)
			return BigReport{Decimal: b.String(), Doubled: doubled.String(), FitsInt64: b.IsInt64()}, nil
		},
		Expect: BigReport{
			Decimal:   bigLiteral,
			Doubled:   "246913578024691357802469135780",
			FitsInt64: false,
		},
	}
}

type symbol struct {
	desc string
}

func (s *symbol) String() string { return "Symbol(" + s.desc + ")" }

func symbolProbe() runner.Probe {
	return runner.Probe{
		Name: "symbol:keyed",
		Doc:  "property keyed by a unique symbol",
		Action: func(context.Context) (any, error) {
			sym := &symbol{desc: "id"}
			objWithSym := map[*symbol]int{sym: 123}
			// A second symbol with the same description is a different key.
			_, clash := objWithSym[&symbol{desc: "id"}]
			return fmt.Sprintf("%s=%d clash=%t", sym, objWithSym[sym], clash), nil
		},
	}
}

func closureProbe() runner.Probe {
	return runner.Probe{
		Name: "closure:add",
		Doc:  "closure capturing its environment",
		Action: func(context.Context) (any, error) {
			base := 2
			add := func(b int) int { return base + b }
			return add(3), nil
		},
		Expect: 5,
	}
}

func iteratorProbe() runner.Probe {
	return runner.Probe{
		Name: "iter:doubled",
		Doc:  "array.iter().map(|x| x * 2).collect()",
		Action: func(context.Context) (any, error) {
			return Map([]int{1, 2, 3}, func(x int) int { return x * 2 }), nil
		},
		Expect: []int{2, 4, 6},
	}
}

func hashMapProbe() runner.Probe {
	return runner.Probe{
		Name: "map:insert",
		Doc:  "hash map insert and lookup",
		Action: func(context.Context) (any, error) {
			m := make(map[string]int)
			m["key"] = 123
			v, ok := m["key"]
			if !ok {
				return nil, fmt.Errorf("key missing after insert")
			}
			return v, nil
		},
		Expect: 123,
	}
}

// TextReport is what the string probe observes.
type TextReport struct {
	Raw      string
	Bytes    int
	CharLen  int
	Composed bool
}

func unicodeProbe() runner.Probe {
	return runner.Probe{
		Name: "string:unicode",
		Doc:  "raw string, byte string, char and canonical composition",
		Action: func(context.Context) (any, error) {
			raw := `Raw string with "quotes"`
			byteStr := []byte("bytes")
			ch := '🦀'
			return TextReport{
				Raw:      raw,
				Bytes:    len(byteStr),
				CharLen:  utf8.RuneLen(ch),
				Composed: norm.NFC.String("e\u0301") == "\u00e9",
			}, nil
		},
		Expect: TextReport{Raw: `Raw string with "quotes"`, Bytes: 5, CharLen: 4, Composed: true},
	}
}
