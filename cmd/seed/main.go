package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"courtbook/internal/config"
	"courtbook/internal/database"
	"courtbook/internal/domain"
	"courtbook/internal/modules/booking"
	"courtbook/internal/modules/coach"
	"courtbook/internal/modules/schedule"
	"courtbook/internal/pkg/clock"
	jwtsvc "courtbook/internal/pkg/jwt"
	"courtbook/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	ctx := context.Background()
	log.Println("Running migrations...")
	if err := database.Migrate(ctx, db, nil); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{"notifications", "bookings", "schedule_overrides", "coach_date_availabilities", "coach_weekdays", "coaches"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	bookingRepo := repository.NewBookingRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	coaches := coach.NewService(repository.NewCoachRepository(db), cfg.Location, nil, nil)
	clk := clock.NewZone(cfg.Location)

	// ================== COACHES ==================
	log.Println("Creating coaches...")
	roster := []struct {
		name     string
		email    string
		weekdays []int
	}{
		{"Maya Lopez", "maya@courtbook.test", []int{0, 2, 4}},
		{"Sam Okafor", "sam@courtbook.test", []int{1, 3}},
		{"Iris Chen", "iris@courtbook.test", nil},
	}
	created := make([]*domain.Coach, 0, len(roster))
	for _, r := range roster {
		c, err := coaches.CreateCoach(ctx, coach.CreateCoachRequest{Name: r.name, Email: r.email})
		if err != nil {
			log.Fatal("create coach:", err)
		}
		if len(r.weekdays) > 0 {
			if _, err := coaches.SetWeeklyAvailability(ctx, c.ID, r.weekdays); err != nil {
				log.Fatal("weekly availability:", err)
			}
		}
		created = append(created, c)
		log.Printf("Coach created: %s (id=%d) weekdays=%v", c.Name, c.ID, r.weekdays)
	}

	today := domain.StartOfDay(clk.Now())
	nextSaturday := today.AddDate(0, 0, (5-domain.WeekdayIndex(today)+7)%7)
	iris := created[2].ID
	if _, err := coaches.SetDateAvailability(ctx, domain.FormatDate(nextSaturday), coach.SetDateRequest{CoachID: &iris}); err != nil {
		log.Fatal("date availability:", err)
	}

	// ================== OVERRIDES ==================
	log.Println("Creating schedule overrides...")
	closed := nextSaturday.AddDate(0, 0, 1)
	short := nextSaturday.AddDate(0, 0, 7)
	for _, o := range []*domain.ScheduleOverride{
		{Date: domain.FormatDate(closed), NoClasses: true, Reason: "Court resurfacing"},
		{Date: domain.FormatDate(short), CustomTimeRanges: datatypes.JSONSlice[string]{"9:00 AM - 10:00 AM", "10:00 AM - 11:30 AM"}},
	} {
		if err := overrideRepo.Upsert(ctx, o); err != nil {
			log.Fatal("override:", err)
		}
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")
	engine := booking.NewEngine(booking.Deps{
		Bookings:  bookingRepo,
		Overrides: overrideRepo,
		Coaches:   coaches,
		Clock:     clk,
	}, booking.EngineConfig{
		MaxWeeks: cfg.MaxRecurringWeeks,
		Rules:    schedule.Rules{GroupCapacity: cfg.GroupCapacity, Policy: cfg.Exclusion},
		Pricing:  cfg.Pricing,
	}, nil)

	tomorrow := domain.FormatDate(today.AddDate(0, 0, 1))
	requests := []booking.Request{
		{LessonType: domain.LessonPrivate, StartDate: tomorrow, TimeRange: "6:00 PM - 7:00 PM", WeekCount: 4, Name: "Alex Client", Email: "alex@example.com"},
		{LessonType: domain.LessonGroup, StartDate: tomorrow, TimeRange: "10:00 AM - 11:00 AM", WeekCount: 2, Name: "Alex Client", Email: "alex@example.com"},
		{LessonType: domain.LessonGroup, StartDate: tomorrow, TimeRange: "10:00 AM - 11:00 AM", WeekCount: 1, Name: "Jordan Client", Email: "jordan@example.com"},
	}
	for _, req := range requests {
		res, err := engine.BookRecurring(ctx, req)
		if err != nil {
			log.Fatal("booking:", err)
		}
		log.Printf("Booked %s %s x%d for %s: %d succeeded", req.LessonType, req.TimeRange, res.WeekCount, req.Email, res.SuccessCount)
	}

	// ================== TOKENS ==================
	j := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)
	tokens := []jwtsvc.Claims{
		{UserID: 1, Role: string(domain.RoleAdmin), Name: "Admin", Email: "admin@courtbook.test"},
		{UserID: 2, Role: string(domain.RoleCoach), CoachID: created[0].ID, Name: created[0].Name, Email: created[0].Email},
		{UserID: 3, Role: string(domain.RoleClient), Name: "Alex Client", Email: "alex@example.com"},
	}
	for _, claims := range tokens {
		tok, err := j.GenerateToken(claims)
		if err != nil {
			log.Fatal("token:", err)
		}
		fmt.Printf("%-6s %s\n", claims.Role, tok)
	}

	log.Println("Seed completed")
}
