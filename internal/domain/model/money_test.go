package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/receipts/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseMoney(t *testing.T) {
	convey.Convey("Given monetary strings", t, func() {
		convey.Convey("When parsing well-formed amounts", func() {
			cases := map[string]int64{
				"0.00":  0,
				"1.26":  126,
				"12.00": 1200,
				"35.35": 3535,
				"9.99":  999,
			}

			convey.Convey("Then they should convert to exact cents", func() {
				for in, want := range cases {
					m, err := model.ParseMoney(in)
					convey.So(err, convey.ShouldBeNil)
					convey.So(m.Cents(), convey.ShouldEqual, want)
					convey.So(m.String(), convey.ShouldEqual, in)
				}
			})
		})

		convey.Convey("When parsing malformed amounts", func() {
			bad := []string{"", "1", "1.2", "1.234", "-1.00", "+1.00", ".50", "1,00", "1.00 ", "abc", "١.٠٠"}

			convey.Convey("Then each should be rejected with ErrInvalidMoney", func() {
				for _, in := range bad {
					_, err := model.ParseMoney(in)
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, model.ErrInvalidMoney), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When parsing an amount too large for int64 cents", func() {
			_, err := model.ParseMoney("92233720368547758.08")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidMoney), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When parsing the largest representable amount", func() {
			m, err := model.ParseMoney("92233720368547758.07")

			convey.Convey("Then it should be accepted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.Cents(), convey.ShouldEqual, int64(9223372036854775807))
			})
		})
	})
}

func TestMoneyPredicates(t *testing.T) {
	convey.Convey("Given fixed-point amounts", t, func() {
		convey.Convey("Then round-dollar detection should be exact", func() {
			convey.So(model.MustParseMoney("10.00").IsWholeDollars(), convey.ShouldBeTrue)
			convey.So(model.MustParseMoney("100.00").IsWholeDollars(), convey.ShouldBeTrue)
			convey.So(model.MustParseMoney("10.01").IsWholeDollars(), convey.ShouldBeFalse)
			convey.So(model.MustParseMoney("0.00").IsWholeDollars(), convey.ShouldBeTrue)
		})

		convey.Convey("And quarter-multiple detection should be exact", func() {
			convey.So(model.MustParseMoney("10.25").IsMultipleOf(25), convey.ShouldBeTrue)
			convey.So(model.MustParseMoney("10.10").IsMultipleOf(25), convey.ShouldBeFalse)
			convey.So(model.MustParseMoney("0.75").IsMultipleOf(25), convey.ShouldBeTrue)
			convey.So(model.MustParseMoney("35.35").IsMultipleOf(25), convey.ShouldBeFalse)
		})

		convey.Convey("And a non-positive step should never match", func() {
			convey.So(model.MustParseMoney("10.00").IsMultipleOf(0), convey.ShouldBeFalse)
			convey.So(model.MustParseMoney("10.00").IsMultipleOf(-25), convey.ShouldBeFalse)
		})

		convey.Convey("And Decimal should round-trip the dollar value", func() {
			convey.So(model.MustParseMoney("1.26").Decimal().String(), convey.ShouldEqual, "1.26")
		})
	})
}

func TestMustParseMoney(t *testing.T) {
	convey.Convey("Given an invalid literal", t, func() {
		convey.Convey("Then MustParseMoney should panic", func() {
			convey.So(func() { model.MustParseMoney("1.5") }, convey.ShouldPanic)
		})
	})
}
