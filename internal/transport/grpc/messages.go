package grpcx

import (
	"errors"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the users.proto messages.
const (
	fieldEmail    protowire.Number = 1
	fieldPhone    protowire.Number = 2
	fieldAddress  protowire.Number = 3
	fieldImageURL protowire.Number = 4

	fieldRequestPassword protowire.Number = 5

	fieldUserRoles  protowire.Number = 5
	fieldUserUserID protowire.Number = 6

	fieldBusinessUserID     protowire.Number = 5
	fieldBusinessBusinessID protowire.Number = 6
	fieldBusinessRoles      protowire.Number = 7
)

var errInvalidUTF8 = errors.New("string field contains invalid UTF-8")

// message is implemented by every type carried by the users service.
type message interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

// UserData is the CreateUser request.
type UserData struct {
	Email    string
	Phone    string
	Address  string
	ImageURL string
	Password string
}

// BusinessData is the CreateBusiness request.
type BusinessData struct {
	Email    string
	Phone    string
	Address  string
	ImageURL string
	Password string
}

// UserResponseData is the CreateUser response.
type UserResponseData struct {
	Email    string
	Phone    string
	Address  string
	ImageURL string
	Roles    []string
	UserID   string
}

// BusinessResponseData is the CreateBusiness response.
type BusinessResponseData struct {
	Email      string
	Phone      string
	Address    string
	ImageURL   string
	UserID     string
	BusinessID string
	Roles      []string
}

func (m *UserData) marshalWire() []byte {
	var b []byte
	b = appendString(b, fieldEmail, m.Email)
	b = appendString(b, fieldPhone, m.Phone)
	b = appendString(b, fieldAddress, m.Address)
	b = appendString(b, fieldImageURL, m.ImageURL)
	b = appendString(b, fieldRequestPassword, m.Password)
	return b
}

func (m *UserData) unmarshalWire(b []byte) error {
	*m = UserData{}
	return consumeStrings(b, func(num protowire.Number, s string) {
		switch num {
		case fieldEmail:
			m.Email = s
		case fieldPhone:
			m.Phone = s
		case fieldAddress:
			m.Address = s
		case fieldImageURL:
			m.ImageURL = s
		case fieldRequestPassword:
			m.Password = s
		}
	})
}

func (m *BusinessData) marshalWire() []byte {
	return (*UserData)(m).marshalWire()
}

func (m *BusinessData) unmarshalWire(b []byte) error {
	return (*UserData)(m).unmarshalWire(b)
}

func (m *UserResponseData) marshalWire() []byte {
	var b []byte
	b = appendString(b, fieldEmail, m.Email)
	b = appendString(b, fieldPhone, m.Phone)
	b = appendString(b, fieldAddress, m.Address)
	b = appendString(b, fieldImageURL, m.ImageURL)
	for _, r := range m.Roles {
		b = protowire.AppendTag(b, fieldUserRoles, protowire.BytesType)
		b = protowire.AppendString(b, r)
	}
	b = appendString(b, fieldUserUserID, m.UserID)
	return b
}

func (m *UserResponseData) unmarshalWire(b []byte) error {
	*m = UserResponseData{}
	return consumeStrings(b, func(num protowire.Number, s string) {
		switch num {
		case fieldEmail:
			m.Email = s
		case fieldPhone:
			m.Phone = s
		case fieldAddress:
			m.Address = s
		case fieldImageURL:
			m.ImageURL = s
		case fieldUserRoles:
			m.Roles = append(m.Roles, s)
		case fieldUserUserID:
			m.UserID = s
		}
	})
}

func (m *BusinessResponseData) marshalWire() []byte {
	var b []byte
	b = appendString(b, fieldEmail, m.Email)
	b = appendString(b, fieldPhone, m.Phone)
	b = appendString(b, fieldAddress, m.Address)
	b = appendString(b, fieldImageURL, m.ImageURL)
	b = appendString(b, fieldBusinessUserID, m.UserID)
	b = appendString(b, fieldBusinessBusinessID, m.BusinessID)
	for _, r := range m.Roles {
		b = protowire.AppendTag(b, fieldBusinessRoles, protowire.BytesType)
		b = protowire.AppendString(b, r)
	}
	return b
}

func (m *BusinessResponseData) unmarshalWire(b []byte) error {
	*m = BusinessResponseData{}
	return consumeStrings(b, func(num protowire.Number, s string) {
		switch num {
		case fieldEmail:
			m.Email = s
		case fieldPhone:
			m.Phone = s
		case fieldAddress:
			m.Address = s
		case fieldImageURL:
			m.ImageURL = s
		case fieldBusinessUserID:
			m.UserID = s
		case fieldBusinessBusinessID:
			m.BusinessID = s
		case fieldBusinessRoles:
			m.Roles = append(m.Roles, s)
		}
	})
}

// appendString encodes a proto3 singular string; the empty string is the default and is omitted.
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// consumeStrings walks b and hands every length-delimited field to set.
// Fields of other wire types are skipped.
func consumeStrings(b []byte, set func(num protowire.Number, s string)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if !utf8.Valid(v) {
			return errInvalidUTF8
		}
		set(num, string(v))
	}
	return nil
}
