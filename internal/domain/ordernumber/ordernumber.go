// Package ordernumber は人が読む注文番号 ORD-YYMMDD-NNNN を扱う。
package ordernumber

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	prefix    = "ORD-"
	seqDigits = 4
	maxSeq    = 9999
)

// Format は日付と連番（0〜9999）から注文番号を作る。
func Format(day time.Time, seq int) string {
	return fmt.Sprintf("%s%s-%04d", prefix, day.Format("060102"), seq)
}

// Parse は注文番号の末尾4桁を連番として返す。
func Parse(number string) (int, bool) {
	if !strings.HasPrefix(number, prefix) || len(number) < seqDigits {
		return 0, false
	}
	seq, err := strconv.Atoi(number[len(number)-seqDigits:])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// Next は前回の番号（無ければ空）から次の番号を作る。
// その日の連番を使い切っていれば ok=false。
func Next(day time.Time, last string) (string, bool) {
	seq := 1
	if prev, ok := Parse(last); ok {
		seq = prev + 1
	}
	if seq > maxSeq {
		return "", false
	}
	return Format(day, seq), true
}

// Random は重複時の再採番用。末尾はランダム4桁。
func Random(day time.Time, r *rand.Rand) string {
	var n int
	if r != nil {
		n = r.IntN(maxSeq + 1)
	} else {
		n = rand.IntN(maxSeq + 1)
	}
	return Format(day, n)
}

// DayRange は now の属する日の [00:00, 翌00:00) を返す。
func DayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
