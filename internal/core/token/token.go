package token

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

const tokenBytes = 32

// New は推測不可能なセッショントークンを生成します。
func New() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand の失敗はプロセスの継続が危険な状態です。
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// ExpiryAfter は基準時刻から指定時間後の失効時刻を返します。
func ExpiryAfter(now time.Time, hours int) time.Time {
	return now.Add(time.Duration(hours) * time.Hour).UTC()
}
