package overlay

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"
)

var (
	// RgbaColorRegex は "rgba(r,g,b,a)" 形式（aは0〜1の小数）にマッチします。
	RgbaColorRegex = regexp.MustCompile(`(?i)^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([0-9.]+)\s*\)`)

	// RgbColorRegex は "rgb(r,g,b)" 形式にマッチします。
	RgbColorRegex = regexp.MustCompile(`(?i)^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)`)
)

// opaqueWhite は解釈できない色指定のフォールバックなのだ。
var opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ParseColor は CSS 風の色文字列を非乗算アルファの NRGBA に変換します。
// 受け付ける形式は #RGB / #RRGGBB / #RRGGBBAA / rgb(r,g,b) / rgba(r,g,b,a) で、
// どれにも当てはまらなければ不透明の白を返すのだ。
func ParseColor(value string) color.NRGBA {
	value = strings.TrimSpace(value)
	if value == "" {
		return opaqueWhite
	}

	if strings.HasPrefix(value, "#") {
		if c, ok := parseHexColor(value[1:]); ok {
			return c
		}
	}

	if m := RgbaColorRegex.FindStringSubmatch(value); m != nil {
		alpha, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return opaqueWhite
		}
		if alpha < 0 {
			alpha = 0
		} else if alpha > 1 {
			alpha = 1
		}
		return color.NRGBA{
			R: parseColorComponent(m[1]),
			G: parseColorComponent(m[2]),
			B: parseColorComponent(m[3]),
			A: uint8(alpha * 255),
		}
	}

	if m := RgbColorRegex.FindStringSubmatch(value); m != nil {
		return color.NRGBA{
			R: parseColorComponent(m[1]),
			G: parseColorComponent(m[2]),
			B: parseColorComponent(m[3]),
			A: 255,
		}
	}

	return opaqueWhite
}

// parseHexColor は # を除いた 3/6/8 桁の16進表記を解釈します。
func parseHexColor(hex string) (color.NRGBA, bool) {
	switch len(hex) {
	case 3:
		r, okR := parseHexByte(strings.Repeat(string(hex[0]), 2))
		g, okG := parseHexByte(strings.Repeat(string(hex[1]), 2))
		b, okB := parseHexByte(strings.Repeat(string(hex[2]), 2))
		if okR && okG && okB {
			return color.NRGBA{R: r, G: g, B: b, A: 255}, true
		}
	case 6:
		r, okR := parseHexByte(hex[0:2])
		g, okG := parseHexByte(hex[2:4])
		b, okB := parseHexByte(hex[4:6])
		if okR && okG && okB {
			return color.NRGBA{R: r, G: g, B: b, A: 255}, true
		}
	case 8:
		r, okR := parseHexByte(hex[0:2])
		g, okG := parseHexByte(hex[2:4])
		b, okB := parseHexByte(hex[4:6])
		a, okA := parseHexByte(hex[6:8])
		if okR && okG && okB && okA {
			return color.NRGBA{R: r, G: g, B: b, A: a}, true
		}
	}
	return color.NRGBA{}, false
}

func parseHexByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

// parseColorComponent は 0-255 の10進成分を解釈します。範囲を超えたら255へ丸めます。
func parseColorComponent(s string) uint8 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v > 255 {
		return 255
	}
	return uint8(v)
}
