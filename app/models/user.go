package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	ROLE_SUPERADMIN = "superadmin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

const (
	DOCUMENT_TYPE_CPF  = "cpf"
	DOCUMENT_TYPE_CNPJ = "cnpj"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email        string         `gorm:"uniqueIndex;type:varchar(200) CHARACTER SET utf8 COLLATE utf8_bin" json:"email" validate:"required,email,min=5,max=200"`
	Password     string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	DocumentType string         `gorm:"type:varchar(10);default:'cpf'" json:"document_type" validate:"oneof=cpf cnpj"`
	Document     string         `gorm:"type:varchar(18);index" json:"document" validate:"max=18"`
	Role         string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin superadmin"`
	Status       string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	HasAccess    bool           `gorm:"default:false;index" json:"has_access"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, password string, documentType string, document string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		Password:     pw,
		DocumentType: documentType,
		Document:     document,
		Role:         ROLE_USER,
		Status:       STATUS_ACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	if document != "" && !ValidDocument(documentType, document) {
		return nil, errors.New("invalid document number for document type")
	}

	return u, nil
}

// ValidDocument checks a CPF or CNPJ including its check digits. Formatting
// punctuation (dots, dashes, slashes) is ignored.
func ValidDocument(documentType, document string) bool {
	digits := onlyDigits(document)
	switch documentType {
	case DOCUMENT_TYPE_CPF:
		return validCPF(digits)
	case DOCUMENT_TYPE_CNPJ:
		return validCNPJ(digits)
	}
	return false
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// allSameDigits catches sequences like 111.111.111-11, which satisfy the
// check-digit arithmetic but are not issued documents.
func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func validCPF(cpf string) bool {
	if len(cpf) != 11 || allSameDigits(cpf) {
		return false
	}
	if cpfCheckDigit(cpf[:9], 10) != int(cpf[9]-'0') {
		return false
	}
	return cpfCheckDigit(cpf[:10], 11) == int(cpf[10]-'0')
}

// cpfCheckDigit applies descending weights from firstWeight; a remainder of
// 10 reads as 0.
func cpfCheckDigit(digits string, firstWeight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (firstWeight - i)
	}
	d := sum * 10 % 11
	if d == 10 {
		d = 0
	}
	return d
}

func validCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || allSameDigits(cnpj) {
		return false
	}
	if cnpjCheckDigit(cnpj[:12]) != int(cnpj[12]-'0') {
		return false
	}
	return cnpjCheckDigit(cnpj[:13]) == int(cnpj[13]-'0')
}

// cnpjCheckDigit weights run 5..2 then wrap to 9..2 for the first digit and
// 6..2 then 9..2 for the second.
func cnpjCheckDigit(digits string) int {
	weight := len(digits) - 7
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsAdmin reports whether the user holds an administrative role
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN || u.Role == ROLE_SUPERADMIN
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
