package cast

import (
	"encoding/base64"
)

// Base64String is a byte slice that can be unmarshaled from a standard (RFC
// 4648) base64-encoded string.
type Base64String []byte

func (b *Base64String) UnmarshalText(src []byte) error {
	enc := base64.StdEncoding
	dbuf := make([]byte, enc.DecodedLen(len(src)))
	n, err := enc.Decode(dbuf, src)
	if err != nil {
		return err
	}
	*b = dbuf[:n]
	return nil
}

func (b Base64String) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64 is the declared type of a Base64String field.
func Base64() Type {
	return Text[Base64String]("base64")
}
