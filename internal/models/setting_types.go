package models

// Setting is the model for the 'settings' key-value table.
// Well-known keys used by the storefront:
//
//	free_shipping_threshold  float, <= 0 disables free shipping
//	store_name               shown in page titles and emails
//	store_tagline            SEO meta description
type Setting struct {
	SettingKey   string `json:"key" db:"setting_key"`
	SettingValue string `json:"value" db:"setting_value"`
	Description  string `json:"description,omitempty" db:"description"`
}

// PublicSettingKeys is the whitelist exposed on the unauthenticated
// settings endpoint. Everything else is admin-only.
var PublicSettingKeys = []string{
	"store_name",
	"store_tagline",
	"free_shipping_threshold",
}
