package storage

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// ColumnUsernameSize is the fixed on-disk width of the username field.
	ColumnUsernameSize = 32
	// ColumnEmailSize is the fixed on-disk width of the email field.
	ColumnEmailSize = 255

	idSize       = 4
	idOffset     = 0
	usernameSize = ColumnUsernameSize
	usernameOff  = idOffset + idSize
	emailSize    = ColumnEmailSize
	emailOff     = usernameOff + usernameSize

	// RowSize is the serialized size of a Row: id(4) + username(32) + email(255).
	RowSize = idSize + usernameSize + emailSize
)

// Row is the single fixed-schema record this store persists.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Validate checks username/email lengths against the fixed field widths.
// It mirrors the bounds the collaborator's insert parser must enforce
// before a Row ever reaches the storage layer.
func (r Row) Validate() error {
	if len(r.Username) > ColumnUsernameSize {
		return fmt.Errorf("string is too long")
	}
	if len(r.Email) > ColumnEmailSize {
		return fmt.Errorf("string is too long")
	}
	return nil
}

// SerializeRow writes r into dst, which must be exactly RowSize bytes.
// Strings are zero-padded to their fixed field width.
func SerializeRow(r Row, dst []byte) error {
	if len(dst) != RowSize {
		return fmt.Errorf("SerializeRow: dst length %d, want %d", len(dst), RowSize)
	}
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+idSize], r.ID)
	copy(dst[usernameOff:usernameOff+usernameSize], r.Username)
	copy(dst[emailOff:emailOff+emailSize], r.Email)
	return nil
}

// DeserializeRow reads a Row back out of src, which must be exactly
// RowSize bytes. Fixed-width string fields are treated as NUL-terminated:
// trailing zero padding is trimmed off.
func DeserializeRow(src []byte) (Row, error) {
	if len(src) != RowSize {
		return Row{}, fmt.Errorf("DeserializeRow: src length %d, want %d", len(src), RowSize)
	}
	var r Row
	r.ID = binary.LittleEndian.Uint32(src[idOffset : idOffset+idSize])
	r.Username = strings.TrimRight(string(src[usernameOff:usernameOff+usernameSize]), "\x00")
	r.Email = strings.TrimRight(string(src[emailOff:emailOff+emailSize]), "\x00")
	return r, nil
}
