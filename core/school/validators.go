package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

var (
	calendarDateTag  = "calendardate"
	calendarDateText = "{0} is not a valid calendar date"
)

func init() {
	core.Validate.RegisterStructValidation(dateStructValidation, Date{})
	core.RegisterCustomTranslation(calendarDateTag, calendarDateText)
}

// dateStructValidation does struct level validation on Date: it must exist in the calendar.
func dateStructValidation(sl validator.StructLevel) {
	if d, ok := sl.Current().Interface().(Date); ok && !d.valid() {
		sl.ReportError(d.Day, "day", "Day", calendarDateTag, "")
	}
}
