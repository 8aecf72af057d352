package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date     string `validate:"required,isodate"`
	Range    string `validate:"required,timerange"`
	Weekdays []int  `validate:"dive,weekday"`
}

func TestValidate_CustomTags(t *testing.T) {
	assert.Nil(t, Validate(sample{Date: "2025-06-02", Range: "9:00 AM - 10:00 AM", Weekdays: []int{0, 6}}))

	fields := Validate(sample{Date: "06/02/2025", Range: "10 AM - 9 AM", Weekdays: []int{7}})
	assert.Equal(t, "isodate", fields["Date"])
	assert.Equal(t, "timerange", fields["Range"])
	assert.Equal(t, "weekday", fields["Weekdays[0]"])
}
