package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fuelsync/backend/internal/application/access"
	appcredit "github.com/fuelsync/backend/internal/application/credit"
	appidentity "github.com/fuelsync/backend/internal/application/identity"
	apppricing "github.com/fuelsync/backend/internal/application/pricing"
	appstation "github.com/fuelsync/backend/internal/application/station"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/domain/station"
	"github.com/fuelsync/backend/internal/infrastructure/cache"
	"github.com/fuelsync/backend/internal/infrastructure/event"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML document read by `fsctl seed`
type SeedFile struct {
	Plans   []SeedPlan   `yaml:"plans"`
	Admins  []SeedAdmin  `yaml:"admins"`
	Tenants []SeedTenant `yaml:"tenants"`
}

// SeedPlan describes a plan; zero limits take the plan defaults
type SeedPlan struct {
	Name               string   `yaml:"name"`
	MaxStations        int      `yaml:"max_stations"`
	MaxPumpsPerStation int      `yaml:"max_pumps_per_station"`
	MaxNozzlesPerPump  int      `yaml:"max_nozzles_per_pump"`
	PriceMonthly       string   `yaml:"price_monthly"`
	PriceYearly        string   `yaml:"price_yearly"`
	Features           []string `yaml:"features"`
}

// SeedAdmin describes a superadmin account
type SeedAdmin struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// SeedTenant describes a tenant and its owner. Plan refers to a plan by name.
type SeedTenant struct {
	Name          string `yaml:"name"`
	Plan          string `yaml:"plan"`
	OwnerName     string `yaml:"owner_name"`
	OwnerEmail    string `yaml:"owner_email"`
	OwnerPassword string `yaml:"owner_password"`
}

// LoadSeedFile parses a seed file
func LoadSeedFile(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, p := range f.Plans {
		if p.Name == "" {
			return nil, fmt.Errorf("plans[%d]: name is required", i)
		}
	}
	for i, t := range f.Tenants {
		if t.Name == "" || t.Plan == "" {
			return nil, fmt.Errorf("tenants[%d]: name and plan are required", i)
		}
	}
	return &f, nil
}

// DemoOptions sizes the demo data created for each new tenant.
// Counts above the tenant's plan limits are capped.
type DemoOptions struct {
	Enabled         bool
	Stations        int
	PumpsPerStation int
	NozzlesPerPump  int
	Creditors       int
	Seed            uint64
}

// SeedReport lists what a seed run created; existing records are skipped
type SeedReport struct {
	Plans     []string             `json:"plans"`
	Admins    []string             `json:"admins"`
	Tenants   []SeededTenant       `json:"tenants"`
	Skipped   []string             `json:"skipped,omitempty"`
	DemoStats map[string]DemoStats `json:"demo,omitempty"`
}

// SeededTenant is a created tenant with its provisioned logins
type SeededTenant struct {
	ID    uuid.UUID                     `json:"id"`
	Name  string                        `json:"name"`
	Users []appidentity.ProvisionedUser `json:"users"`
}

// DemoStats counts the demo records created for one tenant
type DemoStats struct {
	Stations  int `json:"stations"`
	Pumps     int `json:"pumps"`
	Nozzles   int `json:"nozzles"`
	Prices    int `json:"prices"`
	Creditors int `json:"creditors"`
}

// Seeder writes seed data through the application services
type Seeder struct {
	repos      *persistence.GormRepositories
	plans      *appidentity.PlanService
	tenants    *appidentity.TenantService
	admins     *appidentity.AdminService
	stations   *appstation.StationService
	pumps      *appstation.PumpService
	nozzles    *appstation.NozzleService
	prices     *apppricing.PriceService
	creditors  *appcredit.CreditorService
	priceCache *cache.MemoryStore
	logger     *zap.Logger
}

// NewSeeder creates a seeder over db
func NewSeeder(db *gorm.DB, defaults identity.PlanLimits, logger *zap.Logger) *Seeder {
	repos := persistence.NewRepositories(db)
	tx := persistence.NewGormTransactionScope(db)
	events := event.NewInMemoryEventBus(logger)
	store := cache.NewMemoryStore(time.Minute)
	return &Seeder{
		repos:      repos,
		plans:      appidentity.NewPlanService(repos.Plans(), defaults, logger),
		tenants:    appidentity.NewTenantService(repos, tx, logger),
		admins:     appidentity.NewAdminService(repos, tx, logger),
		stations:   appstation.NewStationService(repos, tx, logger),
		pumps:      appstation.NewPumpService(repos, tx, logger),
		nozzles:    appstation.NewNozzleService(repos, tx, logger),
		prices:     apppricing.NewPriceService(repos, store, events, logger),
		creditors:  appcredit.NewCreditorService(repos, tx, logger),
		priceCache: store,
		logger:     logger,
	}
}

// Close stops the seeder's price cache
func (s *Seeder) Close() {
	_ = s.priceCache.Close()
}

// Run applies f. Plans, admins and tenants that already exist are skipped.
func (s *Seeder) Run(ctx context.Context, f *SeedFile, demo DemoOptions) (*SeedReport, error) {
	report := &SeedReport{}

	for _, p := range f.Plans {
		if _, err := s.repos.Plans().FindByName(ctx, p.Name); err == nil {
			report.Skipped = append(report.Skipped, "plan "+p.Name)
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return report, err
		}
		monthly, err := optionalDecimal(p.PriceMonthly)
		if err != nil {
			return report, fmt.Errorf("plan %s: price_monthly: %w", p.Name, err)
		}
		yearly, err := optionalDecimal(p.PriceYearly)
		if err != nil {
			return report, fmt.Errorf("plan %s: price_yearly: %w", p.Name, err)
		}
		if _, err := s.plans.Create(ctx, appidentity.CreatePlanInput{
			Name:               p.Name,
			MaxStations:        p.MaxStations,
			MaxPumpsPerStation: p.MaxPumpsPerStation,
			MaxNozzlesPerPump:  p.MaxNozzlesPerPump,
			PriceMonthly:       monthly,
			PriceYearly:        yearly,
			Features:           p.Features,
		}); err != nil {
			return report, fmt.Errorf("plan %s: %w", p.Name, err)
		}
		report.Plans = append(report.Plans, p.Name)
	}

	for _, a := range f.Admins {
		if _, err := s.repos.Admins().FindByEmail(ctx, a.Email); err == nil {
			report.Skipped = append(report.Skipped, "admin "+a.Email)
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return report, err
		}
		if _, err := s.admins.Create(ctx, appidentity.CreateAdminInput{Email: a.Email, Name: a.Name, Password: a.Password}); err != nil {
			return report, fmt.Errorf("admin %s: %w", a.Email, err)
		}
		report.Admins = append(report.Admins, a.Email)
	}

	faker := gofakeit.New(demo.Seed)
	for _, t := range f.Tenants {
		if _, err := s.repos.Tenants().FindByName(ctx, t.Name); err == nil {
			report.Skipped = append(report.Skipped, "tenant "+t.Name)
			continue
		} else if !errors.Is(err, shared.ErrNotFound) {
			return report, err
		}
		plan, err := s.repos.Plans().FindByName(ctx, t.Plan)
		if err != nil {
			return report, fmt.Errorf("tenant %s: plan %q: %w", t.Name, t.Plan, err)
		}
		created, err := s.tenants.Create(ctx, appidentity.CreateTenantInput{
			Name:          t.Name,
			PlanID:        plan.ID,
			OwnerName:     t.OwnerName,
			OwnerEmail:    t.OwnerEmail,
			OwnerPassword: t.OwnerPassword,
		})
		if err != nil {
			return report, fmt.Errorf("tenant %s: %w", t.Name, err)
		}
		report.Tenants = append(report.Tenants, SeededTenant{ID: created.Tenant.ID, Name: t.Name, Users: created.Users})
		s.logger.Info("Seeded tenant", zap.String("tenant", t.Name), zap.String("tenant_id", created.Tenant.ID.String()))

		if !demo.Enabled {
			continue
		}
		owner, ok := ownerOf(created)
		if !ok {
			return report, fmt.Errorf("tenant %s: no owner provisioned", t.Name)
		}
		actor := access.Actor{TenantID: created.Tenant.ID, UserID: owner, Role: identity.RoleOwner}
		stats, err := s.seedDemo(ctx, faker, actor, plan, demo)
		if err != nil {
			return report, fmt.Errorf("tenant %s: demo data: %w", t.Name, err)
		}
		if report.DemoStats == nil {
			report.DemoStats = make(map[string]DemoStats)
		}
		report.DemoStats[t.Name] = stats
	}
	return report, nil
}

var demoFuels = []station.FuelType{station.FuelPetrol, station.FuelDiesel, station.FuelCNG, station.FuelLPG}

// seedDemo creates stations, pumps, nozzles, current prices and creditors
func (s *Seeder) seedDemo(ctx context.Context, faker *gofakeit.Faker, actor access.Actor, plan *identity.Plan, opts DemoOptions) (DemoStats, error) {
	var stats DemoStats
	validFrom := time.Now().Add(-time.Hour)

	for i := 0; i < min(opts.Stations, plan.MaxStations); i++ {
		st, err := s.stations.Create(ctx, actor, appstation.CreateStationInput{
			Name:    fmt.Sprintf("%s %s", faker.City(), faker.RandomString([]string{"Highway", "Junction", "Bypass", "Ring Road"})),
			Address: faker.Street() + ", " + faker.City(),
		})
		if err != nil {
			return stats, err
		}
		stats.Stations++

		fuels := map[station.FuelType]bool{}
		for p := 0; p < min(opts.PumpsPerStation, plan.MaxPumpsPerStation); p++ {
			pump, err := s.pumps.Create(ctx, actor, appstation.CreatePumpInput{
				StationID:    st.ID,
				Name:         fmt.Sprintf("Pump %d", p+1),
				SerialNumber: faker.Regex("SN-[A-Z]{2}[0-9]{6}"),
			})
			if err != nil {
				return stats, err
			}
			stats.Pumps++
			for n := 0; n < min(opts.NozzlesPerPump, plan.MaxNozzlesPerPump); n++ {
				fuel := demoFuels[n%len(demoFuels)]
				if _, err := s.nozzles.Create(ctx, actor, appstation.CreateNozzleInput{
					PumpID:       pump.ID,
					NozzleNumber: n + 1,
					FuelType:     string(fuel),
				}); err != nil {
					return stats, err
				}
				stats.Nozzles++
				fuels[fuel] = true
			}
		}

		for _, fuel := range demoFuels {
			if !fuels[fuel] {
				continue
			}
			price := decimal.NewFromFloat(faker.Float64Range(80, 110)).Round(2)
			if _, err := s.prices.Create(ctx, actor, apppricing.CreatePriceInput{
				StationID: st.ID,
				FuelType:  string(fuel),
				Price:     price,
				CostPrice: price.Mul(decimal.RequireFromString("0.92")).Round(2),
				ValidFrom: validFrom,
			}); err != nil {
				return stats, err
			}
			stats.Prices++
		}
	}

	for i := 0; i < opts.Creditors; i++ {
		if _, err := s.creditors.Create(ctx, actor, appcredit.CreateCreditorInput{
			PartyName:   faker.Company(),
			ContactName: faker.Name(),
			Phone:       faker.Phone(),
			Email:       faker.Email(),
			Address:     faker.Street() + ", " + faker.City(),
			CreditLimit: decimal.NewFromInt(int64(faker.IntRange(10, 100) * 1000)),
		}); err != nil {
			return stats, err
		}
		stats.Creditors++
	}
	return stats, nil
}

func ownerOf(r *appidentity.CreateTenantResult) (uuid.UUID, bool) {
	for _, u := range r.Users {
		if u.Role == string(identity.RoleOwner) {
			return u.ID, true
		}
	}
	return uuid.Nil, false
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	demo := DemoOptions{}
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create plans, superadmins and tenants from a YAML file",
		Long: `Seed reads plans, admins and tenants from a YAML file and creates the
ones that do not exist yet. With --demo every new tenant also gets generated
stations, pumps, nozzles, prices and creditors within its plan limits.`,
		Example: "  fsctl seed -f seed.yaml --demo --stations 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts, file, demo)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "seed file")
	cmd.Flags().BoolVar(&demo.Enabled, "demo", false, "generate demo data for new tenants")
	cmd.Flags().IntVar(&demo.Stations, "stations", 2, "demo stations per tenant")
	cmd.Flags().IntVar(&demo.PumpsPerStation, "pumps", 2, "demo pumps per station")
	cmd.Flags().IntVar(&demo.NozzlesPerPump, "nozzles", 2, "demo nozzles per pump")
	cmd.Flags().IntVar(&demo.Creditors, "creditors", 3, "demo creditors per tenant")
	cmd.Flags().Uint64Var(&demo.Seed, "seed", 0, "random seed for demo data (0 picks one)")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *RootOptions, path string, demo DemoOptions) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	f, err := LoadSeedFile(fh)
	if err != nil {
		return err
	}

	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	seeder := NewSeeder(e.db.DB, identity.PlanLimits{
		MaxStations:        e.cfg.Plan.DefaultMaxStations,
		MaxPumpsPerStation: e.cfg.Plan.DefaultMaxPumpsPerStation,
		MaxNozzlesPerPump:  e.cfg.Plan.DefaultMaxNozzlesPerPump,
	}, e.log)
	defer seeder.Close()

	report, err := seeder.Run(cmd.Context(), f, demo)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), opts.Format, report, func(w io.Writer) {
		fmt.Fprintf(w, "Plans created:   %d\n", len(report.Plans))
		fmt.Fprintf(w, "Admins created:  %d\n", len(report.Admins))
		fmt.Fprintf(w, "Tenants created: %d\n", len(report.Tenants))
		for _, t := range report.Tenants {
			fmt.Fprintf(w, "  %s (%s)\n", t.Name, t.ID)
			for _, u := range t.Users {
				fmt.Fprintf(w, "    %-9s %s  password: %s\n", u.Role, u.Email, u.Password)
			}
			if st, ok := report.DemoStats[t.Name]; ok {
				fmt.Fprintf(w, "    demo: %d stations, %d pumps, %d nozzles, %d prices, %d creditors\n",
					st.Stations, st.Pumps, st.Nozzles, st.Prices, st.Creditors)
			}
		}
		for _, s := range report.Skipped {
			fmt.Fprintf(w, "Skipped existing %s\n", s)
		}
	})
}
