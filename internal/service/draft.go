package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/sku_console/internal/models"
)

// Draft is the editable form behind the add/edit dialog. Numeric fields are
// kept as entered so a missing value can be told apart from zero.
type Draft struct {
	SkuCode     string `json:"skuCode"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StyleName   string `json:"styleName"`
	Colour      string `json:"colour"`
	Size        string `json:"size"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Supplier    string `json:"supplier"`
}

// DraftFrom copies a record into a draft for editing.
func DraftFrom(s models.SKU) Draft {
	return Draft{
		SkuCode:     s.SkuCode,
		Name:        s.Name,
		Description: s.Description,
		StyleName:   s.StyleName,
		Colour:      s.Colour,
		Size:        string(s.Size),
		Quantity:    strconv.Itoa(s.Quantity),
		Price:       s.Price.String(),
		Category:    s.Category,
		Supplier:    s.Supplier,
	}
}

// Field names accepted in a required-field set.
const (
	FieldSkuCode     = "skuCode"
	FieldName        = "name"
	FieldDescription = "description"
	FieldStyleName   = "styleName"
	FieldColour      = "colour"
	FieldSize        = "size"
	FieldQuantity    = "quantity"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldSupplier    = "supplier"
)

var fieldLabels = map[string]string{
	FieldSkuCode:     "SKU Code",
	FieldName:        "Name",
	FieldDescription: "Description",
	FieldStyleName:   "Style Name",
	FieldColour:      "Colour",
	FieldSize:        "Size",
	FieldQuantity:    "Quantity",
	FieldPrice:       "Price",
	FieldCategory:    "Category",
	FieldSupplier:    "Supplier",
}

// DefaultRequiredFields is the required set when size is not tracked.
var DefaultRequiredFields = []string{
	FieldSkuCode, FieldName, FieldStyleName, FieldColour, FieldQuantity, FieldPrice, FieldCategory,
}

// RequiredFields returns the required set, adding size when requireSize is set.
func RequiredFields(requireSize bool) []string {
	fields := append([]string(nil), DefaultRequiredFields...)
	if requireSize {
		fields = append(fields, FieldSize)
	}
	return fields
}

func (d Draft) field(name string) string {
	switch name {
	case FieldSkuCode:
		return d.SkuCode
	case FieldName:
		return d.Name
	case FieldDescription:
		return d.Description
	case FieldStyleName:
		return d.StyleName
	case FieldColour:
		return d.Colour
	case FieldSize:
		return d.Size
	case FieldQuantity:
		return d.Quantity
	case FieldPrice:
		return d.Price
	case FieldCategory:
		return d.Category
	case FieldSupplier:
		return d.Supplier
	}
	return ""
}

// MissingFieldsError lists required fields left empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	labels := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		labels[i] = fieldLabels[f]
	}
	return fmt.Sprintf("Please fill in all required fields (%s)", strings.Join(labels, ", "))
}

// InvalidFieldError reports a present but unusable value.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s %s", fieldLabels[e.Field], e.Reason)
}

// DraftValidator checks a draft locally before anything is sent.
type DraftValidator struct {
	validate *validator.Validate
	required []string
}

// NewDraftValidator builds a validator for the given required-field set.
func NewDraftValidator(required []string) (*DraftValidator, error) {
	for _, f := range required {
		if _, ok := fieldLabels[f]; !ok {
			return nil, fmt.Errorf("unknown required field %q", f)
		}
	}
	return &DraftValidator{
		validate: validator.New(),
		required: append([]string(nil), required...),
	}, nil
}

// Required returns the configured required-field set.
func (v *DraftValidator) Required() []string {
	return append([]string(nil), v.required...)
}

// Validate turns a draft into a submittable input or explains why it cannot.
func (v *DraftValidator) Validate(d Draft) (models.SKUInput, error) {
	var missing []string
	for _, f := range v.required {
		if err := v.validate.Var(strings.TrimSpace(d.field(f)), "required"); err != nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return models.SKUInput{}, &MissingFieldsError{Fields: missing}
	}

	in := models.SKUInput{
		SkuCode:     d.SkuCode,
		Name:        d.Name,
		Description: d.Description,
		StyleName:   d.StyleName,
		Colour:      d.Colour,
		Size:        models.Size(strings.TrimSpace(d.Size)),
		Category:    d.Category,
		Supplier:    d.Supplier,
		Price:       decimal.Zero,
	}

	if err := v.validate.Var(string(in.Size), "omitempty,oneof=S M L XL XXL XXXL"); err != nil {
		return models.SKUInput{}, &InvalidFieldError{Field: FieldSize, Reason: "must be one of S, M, L, XL, XXL, XXXL"}
	}

	if q := strings.TrimSpace(d.Quantity); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			return models.SKUInput{}, &InvalidFieldError{Field: FieldQuantity, Reason: "must be a whole number"}
		}
		if err := v.validate.Var(n, "gte=0"); err != nil {
			return models.SKUInput{}, &InvalidFieldError{Field: FieldQuantity, Reason: "must not be negative"}
		}
		in.Quantity = n
	}

	if p := strings.TrimSpace(d.Price); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return models.SKUInput{}, &InvalidFieldError{Field: FieldPrice, Reason: "must be a number"}
		}
		if price.IsNegative() {
			return models.SKUInput{}, &InvalidFieldError{Field: FieldPrice, Reason: "must not be negative"}
		}
		in.Price = price
	}

	return in, nil
}
