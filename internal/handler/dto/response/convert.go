package response

import (
	"vendor-booking/internal/domain/availability"
	"vendor-booking/internal/domain/booking"
	"vendor-booking/internal/domain/slot"
	"vendor-booking/internal/pkg/civil"

	"github.com/jinzhu/copier"
)

func stringer[T interface{ String() string }]() func(src any) (any, error) {
	return func(src any) (any, error) {
		return src.(T).String(), nil
	}
}

// copyOpts renders domain value types as their wire strings.
var copyOpts = copier.Option{
	Converters: []copier.TypeConverter{
		{SrcType: civil.Date{}, DstType: copier.String, Fn: stringer[civil.Date]()},
		{SrcType: slot.Slot(""), DstType: copier.String, Fn: stringer[slot.Slot]()},
		{SrcType: availability.Status(""), DstType: copier.String, Fn: stringer[availability.Status]()},
		{SrcType: booking.Status(""), DstType: copier.String, Fn: stringer[booking.Status]()},
		{SrcType: booking.Source(""), DstType: copier.String, Fn: stringer[booking.Source]()},
	},
}

func copyInto(dst, src any) {
	// both sides are package-local DTOs of known shape
	if err := copier.CopyWithOption(dst, src, copyOpts); err != nil {
		panic("response: " + err.Error())
	}
}
