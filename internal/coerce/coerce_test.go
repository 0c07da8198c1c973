package coerce_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/blaseref/internal/coerce"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInt(t *testing.T) {
	Convey("Given raw JSON scalars", t, func() {
		Convey("When the value is a JSON integer", func() {
			v, err := coerce.Int(json.RawMessage(`42`))

			Convey("Then it converts directly", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 42)
			})
		})

		Convey("When the value is a numeric string", func() {
			v, err := coerce.Int(json.RawMessage(`" 7 "`))

			Convey("Then surrounding whitespace is ignored", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 7)
			})
		})

		Convey("When the value is a float", func() {
			v, err := coerce.Int(json.RawMessage(`3.9`))

			Convey("Then it truncates toward zero", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 3)
			})
		})

		Convey("When the value is a non-numeric string", func() {
			_, err := coerce.Int(json.RawMessage(`"abc"`))

			Convey("Then it reports a conversion error", func() {
				So(errors.Is(err, coerce.ErrNotNumeric), ShouldBeTrue)
			})
		})

		Convey("When the value is null", func() {
			_, err := coerce.Int(json.RawMessage(`null`))

			Convey("Then it reports a null error", func() {
				So(errors.Is(err, coerce.ErrNull), ShouldBeTrue)
			})
		})

		Convey("When the value is a boolean", func() {
			_, err := coerce.Int(json.RawMessage(`true`))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, coerce.ErrNotNumeric), ShouldBeTrue)
			})
		})
	})
}

func TestFloat(t *testing.T) {
	Convey("Given raw JSON scalars", t, func() {
		Convey("When the value is a JSON number", func() {
			v, err := coerce.Float(json.RawMessage(`0.312`))
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 0.312)
		})

		Convey("When the value is a numeric string", func() {
			v, err := coerce.Float(json.RawMessage(`"1.25"`))
			So(err, ShouldBeNil)
			So(v, ShouldAlmostEqual, 1.25)
		})

		Convey("When the value is an object", func() {
			_, err := coerce.Float(json.RawMessage(`{"a":1}`))
			So(errors.Is(err, coerce.ErrNotNumeric), ShouldBeTrue)
		})
	})
}

func TestString(t *testing.T) {
	Convey("Given raw JSON identifiers", t, func() {
		s, err := coerce.String(json.RawMessage(`"abc-123"`))
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "abc-123")

		n, err := coerce.String(json.RawMessage(`17`))
		So(err, ShouldBeNil)
		So(n, ShouldEqual, "17")

		_, err = coerce.String(json.RawMessage(`null`))
		So(errors.Is(err, coerce.ErrNull), ShouldBeTrue)
	})
}
