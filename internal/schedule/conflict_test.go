package schedule_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timeclock/internal/schedule"
)

var _ = Describe("FindConflicts", func() {
	loc := time.UTC
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	tuesday := monday.AddDate(0, 0, 1)

	shift := func(id int64, date time.Time, start, end, status string) *schedule.Shift {
		return &schedule.Shift{
			ID:         id,
			EmployeeID: 7,
			ShiftDate:  date,
			StartTime:  start,
			EndTime:    end,
			Status:     status,
		}
	}

	candidate := func(date time.Time, start, end string) schedule.Interval {
		iv, err := schedule.NormalizeIntervalStrings(date, start, end, loc)
		Expect(err).NotTo(HaveOccurred())
		return iv
	}

	It("returns every overlapping shift, not just the first", func() {
		existing := []*schedule.Shift{
			shift(1, monday, "08:00", "12:00", schedule.ShiftStatusPublished),
			shift(2, monday, "11:00", "15:00", schedule.ShiftStatusDraft),
			shift(3, monday, "16:00", "20:00", schedule.ShiftStatusApproved),
		}

		conflicts := schedule.FindConflicts(candidate(monday, "09:00", "17:00"), 0, existing, loc)
		Expect(conflicts).To(HaveLen(3))
		Expect([]int64{conflicts[0].ShiftID, conflicts[1].ShiftID, conflicts[2].ShiftID}).
			To(Equal([]int64{1, 2, 3}))
	})

	It("ignores cancelled shifts", func() {
		existing := []*schedule.Shift{
			shift(1, monday, "09:00", "17:00", schedule.ShiftStatusCancelled),
		}
		conflicts := schedule.FindConflicts(candidate(monday, "10:00", "12:00"), 0, existing, loc)
		Expect(conflicts).To(BeEmpty())
	})

	It("excludes the shift being edited", func() {
		existing := []*schedule.Shift{
			shift(5, monday, "09:00", "17:00", schedule.ShiftStatusDraft),
		}
		conflicts := schedule.FindConflicts(candidate(monday, "10:00", "12:00"), 5, existing, loc)
		Expect(conflicts).To(BeEmpty())
	})

	It("allows back-to-back shifts", func() {
		existing := []*schedule.Shift{
			shift(1, monday, "08:00", "16:00", schedule.ShiftStatusPublished),
		}
		conflicts := schedule.FindConflicts(candidate(monday, "16:00", "23:00"), 0, existing, loc)
		Expect(conflicts).To(BeEmpty())
	})

	Context("with overnight shifts", func() {
		It("detects spill into the next morning", func() {
			existing := []*schedule.Shift{
				shift(1, monday, "22:00", "06:00", schedule.ShiftStatusPublished),
			}
			conflicts := schedule.FindConflicts(candidate(tuesday, "05:00", "13:00"), 0, existing, loc)
			Expect(conflicts).To(HaveLen(1))
			Expect(conflicts[0].ShiftID).To(Equal(int64(1)))
		})

		It("allows a next-day shift starting exactly when the overnight ends", func() {
			existing := []*schedule.Shift{
				shift(1, monday, "22:00", "06:00", schedule.ShiftStatusPublished),
			}
			conflicts := schedule.FindConflicts(candidate(tuesday, "06:00", "14:00"), 0, existing, loc)
			Expect(conflicts).To(BeEmpty())
		})

		It("detects an overnight candidate overlapping an early shift next day", func() {
			existing := []*schedule.Shift{
				shift(1, tuesday, "05:00", "09:00", schedule.ShiftStatusPublished),
			}
			conflicts := schedule.FindConflicts(candidate(monday, "21:00", "05:30"), 0, existing, loc)
			Expect(conflicts).To(HaveLen(1))
		})
	})
})
