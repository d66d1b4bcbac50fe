package db

import (
	classesdomain "gym-app-go/internal/domain/classes"
	clientdomain "gym-app-go/internal/domain/client"
	equipmentdomain "gym-app-go/internal/domain/equipment"
	membershipdomain "gym-app-go/internal/domain/membership"
	staffdomain "gym-app-go/internal/domain/staff"
)

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&clientdomain.Client{},
		&staffdomain.Facility{},
		&staffdomain.Staff{},
		&staffdomain.Instructor{},
		&staffdomain.OfficeWorker{},
		&staffdomain.Schedule{},
		&staffdomain.Rating{},
		&membershipdomain.Membership{},
		&membershipdomain.Payment{},
		&membershipdomain.Cancellation{},
		&classesdomain.Class{},
		&classesdomain.Enrollment{},
		&equipmentdomain.Equipment{},
		&equipmentdomain.Reservation{},
	}
}
