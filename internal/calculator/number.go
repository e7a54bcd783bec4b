package calculator

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way a browser's String(number) does: the shortest
// digits that round-trip, plain notation for decimal exponents in (-7, 21),
// exponential notation outside it, and Infinity / -Infinity / NaN tokens.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// Shortest round-trip digits in the form d.ddde±x.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	e, _ := strconv.Atoi(exp)

	k := len(digits)
	n := e + 1

	var b strings.Builder
	b.WriteString(sign)

	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}

	return b.String()
}

// ParseNumber reads the longest numeric prefix of s the way parseFloat does:
// leading whitespace is skipped, an optional sign is accepted, "Infinity" is
// recognised, and text with no numeric prefix is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	neg := false
	body := s
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	if strings.HasPrefix(body, "Infinity") {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	end := numericPrefix(body)
	if end == 0 {
		return math.NaN()
	}

	// Out-of-range literals come back as ±Inf with ErrRange, which is what we want.
	f, _ := strconv.ParseFloat(body[:end], 64)
	if neg {
		f = -f
	}
	return f
}

// numericPrefix returns the length of the decimal literal at the start of s,
// or 0 if there is none.
func numericPrefix(s string) int {
	i := 0
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			fracDigits++
		}
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > expStart {
			i = j
		}
	}

	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
