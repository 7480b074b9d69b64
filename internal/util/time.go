package util

import "time"

// Now devolve o horário atual em UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// DateOf descarta o horário e devolve a data à meia-noite UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
