package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sendOtpInput struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOtpInput struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code"  validate:"required,digits=6"`
}

type roleInput struct {
	Role string `json:"role" validate:"required,in=user,seller,admin"`
}

func TestStruct_requiredAndEmail(t *testing.T) {
	errs := Struct(&sendOtpInput{})
	assert.Contains(t, errs, "email")

	errs = Struct(&sendOtpInput{Email: "not-an-email"})
	assert.Contains(t, errs, "email")

	errs = Struct(&sendOtpInput{Email: "buyer@example.com"})
	assert.Empty(t, errs)
}

func TestStruct_phoneAndDigits(t *testing.T) {
	errs := Struct(&verifyOtpInput{Phone: "+639171234567", Code: "482913"})
	assert.Empty(t, errs)

	errs = Struct(&verifyOtpInput{Phone: "abc", Code: "482913"})
	assert.Contains(t, errs, "phone")

	errs = Struct(&verifyOtpInput{Phone: "+639171234567", Code: "48291"})
	assert.Contains(t, errs, "code")

	errs = Struct(&verifyOtpInput{Phone: "+639171234567", Code: "48a913"})
	assert.Contains(t, errs, "code")
}

func TestStruct_inList(t *testing.T) {
	assert.Empty(t, Struct(&roleInput{Role: "seller"}))
	assert.Contains(t, Struct(&roleInput{Role: "superuser"}), "role")
}

type nullableInput struct {
	Site string `json:"site" validate:"nullable,url"`
}

func TestStruct_nullableSkipsEmpty(t *testing.T) {
	assert.Empty(t, Struct(&nullableInput{}))
	assert.Contains(t, Struct(&nullableInput{Site: "nope"}), "site")
	assert.Empty(t, Struct(&nullableInput{Site: "https://lawlawdelights.ph"}))
}

type priceInput struct {
	Price float64 `json:"price" validate:"required,numeric,gte=1"`
	Stock int     `json:"stock" validate:"required,integer,between=1,10000"`
}

func TestStruct_numericBounds(t *testing.T) {
	assert.Empty(t, Struct(&priceInput{Price: 150, Stock: 20}))
	assert.Contains(t, Struct(&priceInput{Price: 0.5, Stock: 20}), "price")
	assert.Contains(t, Struct(&priceInput{Price: 150, Stock: 20000}), "stock")
}
