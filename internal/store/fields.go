package store

import "github.com/bchaput/rest-shop/internal/models"

// The Apply helpers merge a Fields set into a loaded record. Unknown keys
// are ignored so both backends share one merge definition.

func ApplyProduct(p *models.Product, f Fields) {
	if v, ok := f["name"].(string); ok {
		p.Name = v
	}
	if v, ok := f["about"].(string); ok {
		p.About = v
	}
	if v, ok := f["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := f["categoryIds"].([]string); ok {
		p.CategoryIDs = models.StringList(v)
	}
}

func ApplyUser(u *models.User, f Fields) {
	if v, ok := f["username"].(string); ok {
		u.Username = v
	}
	if v, ok := f["password"].(string); ok {
		u.PasswordHash = v
	}
	if v, ok := f["email"].(string); ok {
		u.Email = v
	}
}

func ApplyOrder(o *models.Order, f Fields) {
	if v, ok := f["userId"].(string); ok {
		o.UserID = v
	}
	if v, ok := f["productIds"].([]string); ok {
		o.ProductIDs = models.StringList(v)
	}
	if v, ok := f["total"].(float64); ok {
		o.Total = v
	}
	if v, ok := f["payment"].(bool); ok {
		o.Payment = v
	}
}
