package export

import (
	"fmt"
	"strconv"
)

type hexUint16 uint16

func (v *hexUint16) String() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%04x", uint16(*v))
}

func (v *hexUint16) Set(s string) error {
	n, err := strconv.ParseUint(trimHexPrefix(s), 16, 16)
	if err != nil {
		return err
	}
	*v = hexUint16(n)
	return nil
}

type hexByte byte

func (v *hexByte) String() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%02x", byte(*v))
}

func (v *hexByte) Set(s string) error {
	n, err := strconv.ParseUint(trimHexPrefix(s), 16, 8)
	if err != nil {
		return err
	}
	*v = hexByte(n)
	return nil
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
