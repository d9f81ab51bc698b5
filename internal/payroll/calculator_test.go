package payroll_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/payroll"
)

var _ = Describe("ComputeLineItems", func() {
	loc := time.UTC

	biweekly := payroll.Period{
		Start: time.Date(2026, 2, 2, 0, 0, 0, 0, loc),
		End:   time.Date(2026, 2, 16, 0, 0, 0, 0, loc),
	}

	settings := &company.Settings{
		OvertimeEnabled:               true,
		OvertimeThresholdHoursPerWeek: decimal.NewFromInt(40),
		OvertimeMultiplierDefault:     decimal.NewFromFloat(1.5),
	}

	entry := func(employeeID int64, day int, hours float64) payroll.EntrySummary {
		return payroll.EntrySummary{
			EmployeeID: employeeID,
			ClockInAt:  time.Date(2026, 2, day, 9, 0, 0, 0, loc),
			Hours:      decimal.NewFromFloat(hours),
		}
	}

	It("pays straight time under the weekly threshold", func() {
		entries := []payroll.EntrySummary{
			entry(7, 2, 8), entry(7, 3, 8), entry(7, 4, 8),
		}
		items := payroll.ComputeLineItems(entries, map[int64]int64{7: 2000}, settings, biweekly)
		Expect(items).To(HaveLen(1))
		Expect(items[0].EmployeeID).To(Equal(int64(7)))
		Expect(items[0].RegularHours.String()).To(Equal("24"))
		Expect(items[0].OvertimeHours.IsZero()).To(BeTrue())
		Expect(items[0].GrossPayCents).To(Equal(int64(48000)))
	})

	It("splits overtime per week inside a biweekly period", func() {
		// Week one: 45 hours. Week two: 38 hours. Only week one pays overtime,
		// even though the period total of 83 stays under two weekly thresholds.
		entries := []payroll.EntrySummary{
			entry(7, 2, 9), entry(7, 3, 9), entry(7, 4, 9), entry(7, 5, 9), entry(7, 6, 9),
			entry(7, 9, 10), entry(7, 10, 10), entry(7, 11, 10), entry(7, 12, 8),
		}
		items := payroll.ComputeLineItems(entries, map[int64]int64{7: 2000}, settings, biweekly)
		Expect(items).To(HaveLen(1))
		Expect(items[0].RegularHours.String()).To(Equal("78"))
		Expect(items[0].OvertimeHours.String()).To(Equal("5"))
		// 78h * $20 + 5h * $20 * 1.5
		Expect(items[0].GrossPayCents).To(Equal(int64(171000)))
	})

	It("pays everything as regular when overtime is disabled", func() {
		noOT := &company.Settings{
			OvertimeEnabled:               false,
			OvertimeThresholdHoursPerWeek: decimal.NewFromInt(40),
			OvertimeMultiplierDefault:     decimal.NewFromFloat(1.5),
		}
		entries := []payroll.EntrySummary{
			entry(7, 2, 12), entry(7, 3, 12), entry(7, 4, 12), entry(7, 5, 12),
		}
		items := payroll.ComputeLineItems(entries, map[int64]int64{7: 2000}, noOT, biweekly)
		Expect(items).To(HaveLen(1))
		Expect(items[0].RegularHours.String()).To(Equal("48"))
		Expect(items[0].OvertimeHours.IsZero()).To(BeTrue())
	})

	It("sorts line items by employee ID", func() {
		entries := []payroll.EntrySummary{
			entry(9, 2, 8), entry(3, 2, 8), entry(7, 2, 8),
		}
		rates := map[int64]int64{3: 1500, 7: 2000, 9: 2500}
		items := payroll.ComputeLineItems(entries, rates, settings, biweekly)
		Expect(items).To(HaveLen(3))
		Expect(items[0].EmployeeID).To(Equal(int64(3)))
		Expect(items[1].EmployeeID).To(Equal(int64(7)))
		Expect(items[2].EmployeeID).To(Equal(int64(9)))
	})

	It("omits employees without entries and skips entries without a rate", func() {
		entries := []payroll.EntrySummary{
			entry(7, 2, 8),
			entry(99, 2, 8), // no rate on file
		}
		rates := map[int64]int64{7: 2000, 8: 2000}
		items := payroll.ComputeLineItems(entries, rates, settings, biweekly)
		Expect(items).To(HaveLen(1))
		Expect(items[0].EmployeeID).To(Equal(int64(7)))
	})

	It("ignores entries outside the period", func() {
		entries := []payroll.EntrySummary{
			entry(7, 2, 8),
			{EmployeeID: 7, ClockInAt: time.Date(2026, 2, 20, 9, 0, 0, 0, loc), Hours: decimal.NewFromInt(8)},
		}
		items := payroll.ComputeLineItems(entries, map[int64]int64{7: 2000}, settings, biweekly)
		Expect(items).To(HaveLen(1))
		Expect(items[0].RegularHours.String()).To(Equal("8"))
	})

	It("is deterministic for the same input", func() {
		entries := []payroll.EntrySummary{
			entry(7, 2, 9.25), entry(7, 9, 41.5), entry(3, 4, 38.75),
		}
		rates := map[int64]int64{3: 1850, 7: 2125}

		first := payroll.ComputeLineItems(entries, rates, settings, biweekly)
		for i := 0; i < 10; i++ {
			again := payroll.ComputeLineItems(entries, rates, settings, biweekly)
			Expect(again).To(HaveLen(len(first)))
			for j := range first {
				Expect(again[j].EmployeeID).To(Equal(first[j].EmployeeID))
				Expect(again[j].RegularHours.Equal(first[j].RegularHours)).To(BeTrue())
				Expect(again[j].OvertimeHours.Equal(first[j].OvertimeHours)).To(BeTrue())
				Expect(again[j].GrossPayCents).To(Equal(first[j].GrossPayCents))
			}
		}
	})
})
