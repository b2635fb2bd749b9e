package param

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"lendex/core"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
	decoder.RegisterConverter(core.Token{}, func(s string) reflect.Value {
		token, err := core.ParseToken(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(token)
	})
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

// Binding decode the query (GET) or json body of r into v and validate it
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return err
		}
	} else {
		if r.Body == nil {
			return errors.New("empty body")
		}

		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	_, err := govalidator.ValidateStruct(v)
	return err
}
