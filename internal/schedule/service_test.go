package schedule_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/employee"
	"github.com/frahmantamala/timeclock/internal/schedule"
)

type mockShiftRepository struct {
	shifts map[int64]*schedule.Shift
	nextID int64
}

func newMockShiftRepository() *mockShiftRepository {
	return &mockShiftRepository{shifts: make(map[int64]*schedule.Shift), nextID: 1}
}

func (m *mockShiftRepository) Create(shift *schedule.Shift) error {
	shift.ID = m.nextID
	m.nextID++
	m.shifts[shift.ID] = shift
	return nil
}

func (m *mockShiftRepository) GetByID(id int64) (*schedule.Shift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return nil, errors.New("shift not found")
	}
	copied := *shift
	return &copied, nil
}

func (m *mockShiftRepository) ListByEmployee(employeeID int64, from, to time.Time) ([]*schedule.Shift, error) {
	var result []*schedule.Shift
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && !s.ShiftDate.Before(from) && s.ShiftDate.Before(to) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockShiftRepository) ListAround(employeeID int64, date time.Time) ([]*schedule.Shift, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return m.ListByEmployee(employeeID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
}

func (m *mockShiftRepository) Update(shift *schedule.Shift) error {
	m.shifts[shift.ID] = shift
	return nil
}

func (m *mockShiftRepository) UpdateStatus(id int64, status string) error {
	shift, ok := m.shifts[id]
	if !ok {
		return errors.New("shift not found")
	}
	shift.Status = status
	return nil
}

type mockSettingsProvider struct {
	settings *company.Settings
}

func (m *mockSettingsProvider) SettingsFor(companyID int64) (*company.Settings, error) {
	return m.settings, nil
}

type mockEmployeeDirectory struct {
	employees map[int64]*employee.Employee
}

func (m *mockEmployeeDirectory) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.New("employee not found")
	}
	return emp, nil
}

var _ = Describe("ScheduleService", func() {
	var (
		repo    *mockShiftRepository
		service *schedule.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		repo = newMockShiftRepository()
		settings := &mockSettingsProvider{settings: &company.Settings{
			CompanyID: 1,
			Timezone:  "UTC",
		}}
		employees := &mockEmployeeDirectory{employees: map[int64]*employee.Employee{
			7: {ID: 7, CompanyID: 1, Name: "Raka", IsActive: true},
		}}
		service = schedule.NewService(repo, settings, employees, testLogger)
	})

	Describe("CreateShift", func() {
		It("creates a draft shift when the slot is free", func() {
			shift, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(shift.ID).NotTo(BeZero())
			Expect(shift.Status).To(Equal(schedule.ShiftStatusDraft))
		})

		It("rejects an overlapping shift and lists all conflicts", func() {
			for _, window := range [][2]string{{"08:00", "12:00"}, {"13:00", "18:00"}} {
				_, err := service.CreateShift(schedule.CreateShiftDTO{
					EmployeeID: 7,
					ShiftDate:  "2026-03-02",
					StartTime:  window[0],
					EndTime:    window[1],
				})
				Expect(err).NotTo(HaveOccurred())
			}

			_, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "11:00",
				EndTime:    "14:00",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeShiftConflict))
			conflicts, ok := appErr.Details.([]schedule.Conflict)
			Expect(ok).To(BeTrue())
			Expect(conflicts).To(HaveLen(2))
		})

		It("rejects an overnight shift colliding with the next morning", func() {
			_, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "22:00",
				EndTime:    "06:00",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-03",
				StartTime:  "05:00",
				EndTime:    "13:00",
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects malformed wall-clock times", func() {
			_, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "25:00",
				EndTime:    "17:00",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateShift", func() {
		It("excludes the shift itself from conflict detection", func() {
			shift, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())

			newEnd := "18:00"
			updated, err := service.UpdateShift(shift.ID, schedule.UpdateShiftDTO{EndTime: &newEnd})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.EndTime).To(Equal("18:00"))
		})

		It("refuses to edit an approved shift", func() {
			shift, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.PublishShift(shift.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ApproveShift(shift.ID)
			Expect(err).NotTo(HaveOccurred())

			newEnd := "18:00"
			_, err = service.UpdateShift(shift.ID, schedule.UpdateShiftDTO{EndTime: &newEnd})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateShift", func() {
		It("reports conflicts without persisting anything", func() {
			_, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())

			conflicts, err := service.ValidateShift(schedule.ValidateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "16:00",
				EndTime:    "20:00",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(conflicts).To(HaveLen(1))
			Expect(repo.shifts).To(HaveLen(1))
		})

		It("returns an empty list for a free slot", func() {
			conflicts, err := service.ValidateShift(schedule.ValidateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(conflicts).To(BeEmpty())
		})
	})

	Describe("status transitions", func() {
		var shiftID int64

		BeforeEach(func() {
			shift, err := service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())
			shiftID = shift.ID
		})

		It("walks draft -> published -> approved", func() {
			shift, err := service.PublishShift(shiftID)
			Expect(err).NotTo(HaveOccurred())
			Expect(shift.Status).To(Equal(schedule.ShiftStatusPublished))

			shift, err = service.ApproveShift(shiftID)
			Expect(err).NotTo(HaveOccurred())
			Expect(shift.Status).To(Equal(schedule.ShiftStatusApproved))
		})

		It("rejects approving a draft", func() {
			_, err := service.ApproveShift(shiftID)
			Expect(err).To(HaveOccurred())
		})

		It("cancelling frees the slot for new shifts", func() {
			_, err := service.CancelShift(shiftID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateShift(schedule.CreateShiftDTO{
				EmployeeID: 7,
				ShiftDate:  "2026-03-02",
				StartTime:  "09:00",
				EndTime:    "17:00",
			})
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
