package schema

const SaleSchemaTextV1 = `{
	"type": "record",
	"namespace": "stockpos.sales",
	"name": "sale",
	"fields": [
		{"name": "sale_id", "type": "long"},
		{"name": "created_at", "type": "string"},
		{"name": "payment_method", "type": "string"},
		{"name": "total", "type": "double"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "sale_item",
				"fields": [
					{"name": "product_id", "type": "long"},
					{"name": "qty", "type": "int"},
					{"name": "unit_price", "type": "double"}
				]
			}
		}}
	]
}`

type (
	SaleV1 struct {
		SaleID        int64        `avro:"sale_id"`
		CreatedAt     string       `avro:"created_at"`
		PaymentMethod string       `avro:"payment_method"`
		Total         float64      `avro:"total"`
		Items         []SaleItemV1 `avro:"items"`
	}

	SaleItemV1 struct {
		ProductID int64   `avro:"product_id"`
		Qty       int     `avro:"qty"`
		UnitPrice float64 `avro:"unit_price"`
	}
)
