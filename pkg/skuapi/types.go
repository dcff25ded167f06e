package skuapi

import (
	"encoding/json"

	"github.com/GTDGit/sku_console/internal/models"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the error body shape the backend uses for rejections.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// DeleteResponse is the body of DELETE /skus/{id}.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// skuPayload is the wire form of models.SKUInput. Price goes out as a JSON
// number, which the backend's numeric field requires.
type skuPayload struct {
	SkuCode     string      `json:"skuCode"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StyleName   string      `json:"styleName"`
	Colour      string      `json:"colour"`
	Size        models.Size `json:"size,omitempty"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	Supplier    string      `json:"supplier"`
}

func toPayload(in models.SKUInput) skuPayload {
	return skuPayload{
		SkuCode:     in.SkuCode,
		Name:        in.Name,
		Description: in.Description,
		StyleName:   in.StyleName,
		Colour:      in.Colour,
		Size:        in.Size,
		Quantity:    in.Quantity,
		Price:       json.Number(in.Price.String()),
		Category:    in.Category,
		Supplier:    in.Supplier,
	}
}
