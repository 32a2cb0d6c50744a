package main

import (
	"context"
	"log"

	"fieldbook/internal/config"
	"fieldbook/internal/database"
	"fieldbook/internal/domain"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"
)

// Dev seeding: a few fields plus ready-to-use tokens for manual testing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	fields := repository.NewFieldRepository(db)
	ctx := context.Background()

	seeds := []domain.Field{
		{Name: "Field A (synthetic grass)", OpenHour: 8, CloseHour: 22, PricePerHour: 100000, Status: domain.FieldAvailable},
		{Name: "Field B (vinyl)", OpenHour: 8, CloseHour: 23, PricePerHour: 120000, Status: domain.FieldAvailable},
		{Name: "Field C (under renovation)", OpenHour: 9, CloseHour: 21, PricePerHour: 90000, Status: domain.FieldUnavailable},
	}
	for i := range seeds {
		if err := fields.Create(ctx, &seeds[i]); err != nil {
			log.Fatalf("seed field %q: %v", seeds[i].Name, err)
		}
		log.Printf("seeded field id=%d name=%q", seeds[i].ID, seeds[i].Name)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	customerToken, err := j.GenerateToken(1, domain.RoleCustomer)
	if err != nil {
		log.Fatal(err)
	}
	cashierToken, err := j.GenerateToken(100, domain.RoleCashier)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("customer token: %s", customerToken)
	log.Printf("cashier token:  %s", cashierToken)
}
