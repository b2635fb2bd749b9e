package id

import (
	"crypto/md5"
	"fmt"
	"io"

	"github.com/gofrs/uuid"
)

// GenTraceID new random trace id
func GenTraceID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// TraceIDFrom uuid v3 style id derived from text, equal texts give equal ids
func TraceIDFrom(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

// PayoutTraceID id of the payout made by the market operation that moved the market
// from version to version + 1; retrying the same operation yields the same id
func PayoutTraceID(action string, marketID uint64, version int64) string {
	return TraceIDFrom(fmt.Sprintf("%s:%d:%d", action, marketID, version))
}
