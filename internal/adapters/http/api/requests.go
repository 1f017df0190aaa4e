package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// countryRequest binds GET /predictions/country/{country}.
type countryRequest struct {
	Country  string `validate:"required,max=100"`
	Year     int    `validate:"omitempty,min=1896,max=2100"`
	Strategy string `validate:"omitempty,oneof=ma es moving_average moving-average exponential ewma"`
}

// topCountriesRequest binds GET /predictions/top-countries.
type topCountriesRequest struct {
	N        int    `validate:"min=1"`
	Year     int    `validate:"omitempty,min=1896,max=2100"`
	Strategy string `validate:"omitempty,oneof=ma es moving_average moving-average exponential ewma"`
}

// athletesRequest binds GET /predictions/athletes.
type athletesRequest struct {
	Limit    int    `validate:"min=1"`
	Strategy string `validate:"omitempty,oneof=ma es moving_average moving-average exponential ewma"`
}

// sportsRequest binds GET /predictions/sports.
type sportsRequest struct {
	Year     int    `validate:"omitempty,min=1896,max=2100"`
	Strategy string `validate:"omitempty,oneof=ma es moving_average moving-average exponential ewma"`
}

// historyRequest binds GET /history/country/{country}.
type historyRequest struct {
	Country string `validate:"required,max=100"`
}

// validateRequest runs struct validation and flattens the first failure into
// a readable message.
func validateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if fe.Param() != "" {
			return fmt.Errorf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%s is %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func queryStrategy(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("strategy")))
}
