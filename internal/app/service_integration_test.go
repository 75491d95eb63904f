package service_test

import (
	"context"
	"sync"
	"testing"

	service "github.com/okian/receipts/internal/app"
	"github.com/okian/receipts/internal/domain/model"
	"github.com/okian/receipts/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func targetReceipt() model.Receipt {
	d, _ := model.ParseDate("2022-01-01")
	t, _ := model.ParseTimeOfDay("13:01")
	r, err := model.NewReceipt("Target", d, t, []model.Item{
		{ShortDescription: "Mountain Dew 12PK", Price: model.MustParseMoney("6.49")},
		{ShortDescription: "Emils Cheese Pizza", Price: model.MustParseMoney("12.25")},
		{ShortDescription: "Knorr Creamy Chicken", Price: model.MustParseMoney("1.26")},
		{ShortDescription: "Doritos Nacho Cheese", Price: model.MustParseMoney("3.35")},
		{ShortDescription: "   Klarbrunn 12-PK 12 FL OZ  ", Price: model.MustParseMoney("12.00")},
	}, model.MustParseMoney("35.35"))
	if err != nil {
		panic(err)
	}
	return r
}

func TestServiceIntegration(t *testing.T) {
	for _, backend := range []string{service.BackendMemory, service.BackendBuntDB} {
		Convey("Given a started service on the "+backend+" backend", t, func() {
			ctx := context.Background()
			svc := service.New(
				service.WithStoreBackend(backend),
				service.WithScorer(scoring.NewEngine(scoring.WithGeneratedCodeBonus(false))),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("When processing the example receipts", func() {
				targetID, err := svc.ProcessReceipt(ctx, targetReceipt())
				So(err, ShouldBeNil)
				marketID, err := svc.ProcessReceipt(ctx, sampleReceipt())
				So(err, ShouldBeNil)

				Convey("Then their points should match the scoring rules", func() {
					p, err := svc.Points(ctx, targetID)
					So(err, ShouldBeNil)
					So(p, ShouldEqual, 28)

					p, err = svc.Points(ctx, marketID)
					So(err, ShouldBeNil)
					So(p, ShouldEqual, 109)
				})

				Convey("And stats should count both", func() {
					So(svc.GetStats()["receiptsStored"], ShouldEqual, 2)
				})
			})

			Convey("When the same receipt is submitted twice", func() {
				first, err := svc.ProcessReceipt(ctx, targetReceipt())
				So(err, ShouldBeNil)
				second, err := svc.ProcessReceipt(ctx, targetReceipt())
				So(err, ShouldBeNil)

				Convey("Then each submission should get its own id", func() {
					So(first, ShouldNotEqual, second)
				})
			})

			Convey("When many receipts are processed concurrently", func() {
				const n = 200
				ids := make([]string, n)
				errs := make([]error, n)
				var wg sync.WaitGroup
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						ids[i], errs[i] = svc.ProcessReceipt(ctx, targetReceipt())
					}(i)
				}
				wg.Wait()

				Convey("Then every id should be unique and resolve to 28", func() {
					seen := make(map[string]bool, n)
					for i := 0; i < n; i++ {
						So(errs[i], ShouldBeNil)
						So(seen[ids[i]], ShouldBeFalse)
						seen[ids[i]] = true
						p, err := svc.Points(ctx, ids[i])
						So(err, ShouldBeNil)
						So(p, ShouldEqual, 28)
					}
				})
			})
		})
	}
}
