// Command seed loads demo users, clients and projects into MongoDB.
//
//	go run ./cmd/seed            # demo data set
//	go run ./cmd/seed -fake 25   # plus 25 generated clients with one project each
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
	"github.com/projecthub/tracker-api/internal/core/service"
	"github.com/projecthub/tracker-api/internal/infrastructure/config"
	mongodb "github.com/projecthub/tracker-api/internal/infrastructure/db/mongo"
	"github.com/projecthub/tracker-api/pkg/logger"
)

func main() {
	fake := flag.Int("fake", 0, "number of generated clients to add")
	seed := flag.Int64("seed", 0, "random seed for generated data (0 = random)")
	reset := flag.Bool("reset", true, "drop existing users, clients and projects first")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "tracker-seed"})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		if err := mongodb.Disconnect(client, 5*time.Second); err != nil {
			log.Error().Err(err).Msg("close mongo")
		}
	}()

	if *reset {
		if err := dropAll(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("clear existing data")
		}
		log.Info().Strs("collections", mongodb.Collections).Msg("cleared existing data")
	}

	s, err := newSeeder(ctx, db, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare repositories")
	}
	if err := s.demo(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed demo data")
	}
	if *fake > 0 {
		n := s.generated(ctx, *fake, *seed)
		log.Info().Int("requested", *fake).Int("created", n).Msg("seeded generated clients")
	}

	fmt.Fprintln(os.Stdout, `
Users:
  admin@example.com / AdminPass123 (admin)
  john@example.com  / UserPass123
  jane@example.com  / UserPass123`)
}

func dropAll(ctx context.Context, db *mongo.Database) error {
	for _, name := range mongodb.Collections {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

type seeder struct {
	auth     *service.AuthService
	clients  *service.ClientService
	projects *service.ProjectService
	log      zerolog.Logger
	admin    domain.Caller
}

func newSeeder(ctx context.Context, db *mongo.Database, cfg *config.Config, log zerolog.Logger) (*seeder, error) {
	users := mongodb.NewUserRepository(db)
	clients := mongodb.NewClientRepository(db)
	projects := mongodb.NewProjectRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if err := clients.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if err := projects.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	return &seeder{
		auth:     service.NewAuthService(users, service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry), log),
		clients:  service.NewClientService(clients, projects, users, log),
		projects: service.NewProjectService(projects, clients, users, log),
		log:      log,
	}, nil
}

func (s *seeder) user(ctx context.Context, username, email, password, role string) (domain.Caller, error) {
	res, err := s.auth.Signup(ctx, ports.SignupInput{Username: username, Email: email, Password: password, Role: role})
	if err != nil {
		return domain.Caller{}, fmt.Errorf("user %s: %w", username, err)
	}
	return domain.Caller{ID: res.User.ID, Role: res.User.Role}, nil
}

func (s *seeder) demo(ctx context.Context) error {
	admin, err := s.user(ctx, "admin", "admin@example.com", "AdminPass123", domain.RoleAdmin)
	if err != nil {
		return err
	}
	john, err := s.user(ctx, "johndoe", "john@example.com", "UserPass123", domain.RoleUser)
	if err != nil {
		return err
	}
	jane, err := s.user(ctx, "janedoe", "jane@example.com", "UserPass123", domain.RoleUser)
	if err != nil {
		return err
	}
	s.admin = admin
	s.log.Info().Msg("created users")

	acme, err := s.clients.Create(ctx, john, ports.ClientInput{
		Name:  "Acme Corporation",
		Email: "contact@acme.com",
		Phone: str("+1234567890"),
		Address: &ports.AddressInput{
			Street: "123 Business Ave", City: "New York", State: "NY", ZipCode: "10001", Country: "USA",
		},
		Company:  str("Acme Corp"),
		Industry: str("Technology"),
	})
	if err != nil {
		return fmt.Errorf("client acme: %w", err)
	}
	global, err := s.clients.Create(ctx, jane, ports.ClientInput{
		Name:     "Global Innovations",
		Email:    "info@globalinnovations.com",
		Phone:    str("+1987654321"),
		Company:  str("Global Innovations Ltd"),
		Industry: str("Manufacturing"),
	})
	if err != nil {
		return fmt.Errorf("client global: %w", err)
	}
	techstart, err := s.clients.Create(ctx, admin, ports.ClientInput{
		Name:     "TechStart Solutions",
		Email:    "hello@techstart.com",
		Phone:    str("+1555123456"),
		Company:  str("TechStart Solutions Inc"),
		Industry: str("Software"),
	})
	if err != nil {
		return fmt.Errorf("client techstart: %w", err)
	}
	s.log.Info().Msg("created clients")

	demo := []struct {
		owner domain.Caller
		in    ports.ProjectInput
	}{
		{john, ports.ProjectInput{
			Name:        "Website Redesign",
			Description: str("Complete redesign of the company website with modern UI/UX"),
			ClientID:    acme.Client.ID,
			Status:      str("in-progress"),
			Priority:    str("high"),
			Budget:      num(50000),
			StartDate:   day("2025-08-01"),
			EndDate:     day("2025-12-31"),
			Deliverables: []ports.DeliverableInput{
				{Name: "UI/UX Design", Description: "Complete design mockups and prototypes", Completed: true},
				{Name: "Frontend Development", Description: "React-based frontend implementation"},
				{Name: "Backend Integration", Description: "API integration and backend connectivity"},
			},
			TeamMembers: []string{jane.ID, admin.ID},
			Tags:        []string{"web", "design", "react"},
		}},
		{john, ports.ProjectInput{
			Name:        "Mobile App Development",
			Description: str("iOS and Android mobile application for customer engagement"),
			ClientID:    acme.Client.ID,
			Status:      str("planning"),
			Priority:    str("medium"),
			Budget:      num(75000),
			StartDate:   day("2025-09-01"),
			EndDate:     day("2026-03-31"),
			Deliverables: []ports.DeliverableInput{
				{Name: "Requirements Analysis", Description: "Detailed requirements gathering and analysis"},
				{Name: "iOS Development", Description: "Native iOS application development"},
				{Name: "Android Development", Description: "Native Android application development"},
			},
			TeamMembers: []string{john.ID},
			Tags:        []string{"mobile", "ios", "android"},
		}},
		{jane, ports.ProjectInput{
			Name:        "ERP System Implementation",
			Description: str("Implementation of enterprise resource planning system"),
			ClientID:    global.Client.ID,
			Status:      str("completed"),
			Priority:    str("urgent"),
			Budget:      num(150000),
			StartDate:   day("2025-01-01"),
			EndDate:     day("2025-07-31"),
			Deliverables: []ports.DeliverableInput{
				{Name: "System Analysis", Description: "Current system analysis and requirements", Completed: true},
				{Name: "ERP Installation", Description: "Installation and configuration of ERP system", Completed: true},
				{Name: "Data Migration", Description: "Migration of existing data to new system", Completed: true},
				{Name: "Training", Description: "Staff training and documentation", Completed: true},
			},
			TeamMembers: []string{admin.ID, john.ID, jane.ID},
			Tags:        []string{"erp", "enterprise", "implementation"},
		}},
		{admin, ports.ProjectInput{
			Name:        "Cloud Migration",
			Description: str("Migration of legacy systems to cloud infrastructure"),
			ClientID:    techstart.Client.ID,
			Status:      str("on-hold"),
			Priority:    str("low"),
			Budget:      num(100000),
			StartDate:   day("2025-10-01"),
			EndDate:     day("2026-02-28"),
			Deliverables: []ports.DeliverableInput{
				{Name: "Infrastructure Assessment", Description: "Assessment of current infrastructure"},
				{Name: "Cloud Architecture Design", Description: "Design of cloud-based architecture"},
			},
			TeamMembers: []string{admin.ID},
			Tags:        []string{"cloud", "migration", "infrastructure"},
		}},
	}
	for _, p := range demo {
		if _, err := s.projects.Create(ctx, p.owner, p.in); err != nil {
			return fmt.Errorf("project %s: %w", p.in.Name, err)
		}
	}
	s.log.Info().Int("count", len(demo)).Msg("created projects")
	return nil
}

var industries = []string{"Technology", "Manufacturing", "Software", "Retail", "Healthcare", "Finance", "Logistics"}

// generated adds n fake clients owned by the admin, each with one project.
// Clients whose generated email collides are skipped.
func (s *seeder) generated(ctx context.Context, n int, seed int64) int {
	f := gofakeit.New(seed)
	statuses := make([]string, len(domain.ProjectStatuses))
	for i, st := range domain.ProjectStatuses {
		statuses[i] = string(st)
	}
	priorities := make([]string, len(domain.Priorities))
	for i, p := range domain.Priorities {
		priorities[i] = string(p)
	}

	created := 0
	for i := 0; i < n; i++ {
		company := f.Company()
		c, err := s.clients.Create(ctx, s.admin, ports.ClientInput{
			Name:  company,
			Email: f.Email(),
			Phone: str(f.Numerify("+1##########")),
			Address: &ports.AddressInput{
				Street: f.Street(), City: f.City(), State: f.StateAbr(), ZipCode: f.Zip(), Country: f.Country(),
			},
			Company:  str(company + " " + f.CompanySuffix()),
			Industry: str(f.RandomString(industries)),
		})
		if err != nil {
			s.log.Warn().Err(err).Str("client", company).Msg("skipping generated client")
			continue
		}
		created++

		start := f.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC()
		end := start.AddDate(0, f.Number(1, 12), 0)
		_, err = s.projects.Create(ctx, s.admin, ports.ProjectInput{
			Name:        f.AppName(),
			Description: str(f.Sentence(12)),
			ClientID:    c.Client.ID,
			Status:      str(f.RandomString(statuses)),
			Priority:    str(f.RandomString(priorities)),
			Budget:      num(f.Price(1000, 200000)),
			StartDate:   &start,
			EndDate:     &end,
			Deliverables: []ports.DeliverableInput{
				{Name: f.BuzzWord(), Description: f.Sentence(6), Completed: f.Bool()},
			},
			Tags: []string{f.Word(), f.Word()},
		})
		if err != nil {
			s.log.Warn().Err(err).Str("client", company).Msg("skipping generated project")
		}
	}
	return created
}

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func day(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}
