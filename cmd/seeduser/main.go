// cmd/seeduser/main.go: creates a kiosk user with a PIN.
// Usage: go run ./cmd/seeduser -name ALICE -pin 4821 [-role Employee] [-rate 15]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ebucks/internal/config"
	"ebucks/internal/dto"
	"ebucks/internal/infra"
	"ebucks/internal/model"
	"ebucks/internal/repository"
	"ebucks/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	name := flag.String("name", "", "display name")
	pin := flag.String("pin", "", "numeric PIN, 4-12 digits")
	role := flag.String("role", model.RoleEmployee, "Admin or Employee")
	rate := flag.String("rate", "15.00", "hourly rate")
	email := flag.String("email", "", "payroll slip address (optional)")
	flag.Parse()

	if *name == "" || *pin == "" {
		flag.Usage()
		os.Exit(2)
	}
	hourly, err := decimal.NewFromString(*rate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -rate")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	req := dto.CreateUserRequest{Name: *name, Role: *role, PIN: *pin, HourlyRate: &hourly}
	if *email != "" {
		req.Email = email
	}
	user, err := service.NewAuthService(repository.NewUserRepository(db), cfg).CreateUser(context.Background(), req)
	if err != nil {
		log.Fatal().Err(err).Msg("create user")
	}
	fmt.Printf("user %s (%s) created with id %s\n", user.Name, user.Role, user.ID)
}
