package formbind

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/validation"
)

// ParseFilter coerces name=value pairs against res. Names resolve to a
// declared query parameter first and a field second; anything else is an
// error. Empty values coerce to null and are left for the controller to
// reject.
func ParseFilter(res model.Resource, pairs []string) (record.Filter, error) {
	filter := make(record.Filter, len(pairs))
	verr := &validation.Error{}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			verr.AddForm(fmt.Sprintf("Filter %q must be name=value", pair))
			continue
		}
		var (
			value record.Value
			err   error
		)
		if param, found := res.QueryParam(name); found {
			param.Required = false
			value, err = CoerceParam(param, raw)
		} else if field, found := res.Field(name); found {
			field.Required = false
			value, err = Coerce(field, raw)
		} else {
			verr.Add(name, "Unknown filter "+name)
			continue
		}
		if err != nil {
			verr.Add(name, err.Error())
			continue
		}
		filter[name] = value
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return filter, nil
}
