// Package seed fills an empty database with a small demo gym.
package seed

import (
	"context"
	"fmt"
	"time"

	classesdomain "gym-app-go/internal/domain/classes"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	staffdomain "gym-app-go/internal/domain/staff"
	"gym-app-go/pkg/logger"
)

type Services struct {
	Staff     *staffdomain.Service
	Classes   *classesdomain.Service
	Equipment *equipmentdomain.Service
}

type Result struct {
	Seeded      bool
	Instructors []uint
	Classes     []uint
	Equipment   []uint
}

type instructorSeed struct {
	firstName      string
	lastName       string
	email          string
	specialization string
	certificates   string
	rateCents      int64
}

var instructors = []instructorSeed{
	{"Ewa", "Zielińska", "ewa.zielinska@gym.local", "joga", "RYT-200", 9000},
	{"Marek", "Nowak", "marek.nowak@gym.local", "crossfit", "CF-L1, TRX", 11000},
}

var equipmentItems = []equipmentdomain.CreateEquipmentInput{
	{Name: "Bieżnia 1", Type: "cardio", Condition: "dobry", Location: "Strefa cardio"},
	{Name: "Rower spinningowy", Type: "cardio", Condition: "nowy", Location: "Sala B"},
	{Name: "Ławka regulowana", Type: "siłownia", Condition: "dobry", Location: "Strefa wolnych ciężarów"},
	{Name: "Wioślarz", Type: "cardio", Condition: "do przeglądu", Location: "Strefa cardio"},
}

// Demo seeds one facility with staff, shifts, classes and equipment. It does
// nothing when any facility already exists.
func Demo(ctx context.Context, services Services, now time.Time, log logger.Logger) (Result, error) {
	log = logger.OrNop(log)

	has, err := services.Staff.HasFacilities(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: check facilities: %w", err)
	}
	if has {
		log.Debug("seed: skipped, data present")
		return Result{}, nil
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	result := Result{Seeded: true}

	facility, err := services.Staff.CreateFacility(ctx, staffdomain.Facility{
		Name:         "Gym Centrum",
		Address:      "ul. Marszałkowska 10, Warszawa",
		OpeningHours: "06:00-22:00",
		Phone:        "+48 22 123 45 67",
	})
	if err != nil {
		return Result{}, fmt.Errorf("seed: facility: %w", err)
	}

	for _, item := range instructors {
		member, err := services.Staff.HireInstructor(ctx, staffdomain.HireInput{
			FirstName:       item.firstName,
			LastName:        item.lastName,
			BirthDate:       time.Date(1988, 5, 14, 0, 0, 0, 0, time.UTC),
			HiredOn:         today.AddDate(-2, 0, 0),
			HourlyRateCents: item.rateCents,
			Email:           item.email,
			FacilityID:      facility.ID,
		}, item.specialization, item.certificates)
		if err != nil {
			return Result{}, fmt.Errorf("seed: instructor %s: %w", item.email, err)
		}
		result.Instructors = append(result.Instructors, member.ID)
	}

	office, err := services.Staff.HireOfficeWorker(ctx, staffdomain.HireInput{
		FirstName:       "Anna",
		LastName:        "Wiśniewska",
		BirthDate:       time.Date(1995, 2, 3, 0, 0, 0, 0, time.UTC),
		HiredOn:         today.AddDate(-1, 0, 0),
		HourlyRateCents: 4500,
		Email:           "recepcja@gym.local",
		Phone:           "+48 600 100 200",
		FacilityID:      facility.ID,
	}, "recepcja")
	if err != nil {
		return Result{}, fmt.Errorf("seed: office worker: %w", err)
	}

	shifts := []staffdomain.ShiftInput{
		{StaffID: office.ID, Date: today, StartTime: "06:00", EndTime: "14:00"},
		{StaffID: result.Instructors[0], Date: today, StartTime: "07:00", EndTime: "12:00"},
		{StaffID: result.Instructors[1], Date: today, StartTime: "14:00", EndTime: "21:00"},
	}
	for _, shift := range shifts {
		if _, err := services.Staff.AddShift(ctx, shift); err != nil {
			return Result{}, fmt.Errorf("seed: shift: %w", err)
		}
	}

	tomorrow := today.AddDate(0, 0, 1)
	classes := []classesdomain.CreateClassInput{
		{Name: "Joga poranna", StartsAt: tomorrow.Add(7 * time.Hour), Capacity: 12, Location: "Sala A", InstructorID: result.Instructors[0]},
		{Name: "CrossFit", StartsAt: tomorrow.Add(18 * time.Hour), Capacity: 10, Location: "Strefa funkcjonalna", InstructorID: result.Instructors[1]},
		{Name: "Stretching", StartsAt: tomorrow.AddDate(0, 0, 1).Add(19 * time.Hour), Capacity: 15, Location: "Sala B", InstructorID: result.Instructors[0]},
	}
	for _, input := range classes {
		class, err := services.Classes.CreateClass(ctx, input)
		if err != nil {
			return Result{}, fmt.Errorf("seed: class %s: %w", input.Name, err)
		}
		result.Classes = append(result.Classes, class.ID)
	}

	for _, input := range equipmentItems {
		input.PurchaseDate = today.AddDate(-1, 0, 0)
		item, err := services.Equipment.CreateEquipment(ctx, input)
		if err != nil {
			return Result{}, fmt.Errorf("seed: equipment %s: %w", input.Name, err)
		}
		result.Equipment = append(result.Equipment, item.ID)
	}

	log.Info("seed: demo data created",
		"instructors", len(result.Instructors),
		"classes", len(result.Classes),
		"equipment", len(result.Equipment),
	)
	return result, nil
}
