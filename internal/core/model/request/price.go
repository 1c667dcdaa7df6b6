package request

import (
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Price is a decimal amount in a request body. A value that is not a decimal
// fails as a type error so the decoder can name the field.
type Price struct {
	decimal.Decimal
}

func NewPrice(value string) Price {
	return Price{Decimal: decimal.RequireFromString(value)}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var value decimal.Decimal

	if err := value.UnmarshalJSON(data); err != nil {
		return &json.UnmarshalTypeError{
			Value: "value " + string(data),
			Type:  reflect.TypeOf(p).Elem(),
		}
	}

	p.Decimal = value
	return nil
}
