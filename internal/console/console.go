// Package console provides an interactive terminal client for the gas
// tracker. It drives the same service layer as the HTTP API, so everything
// recorded at the terminal shows up in the web UI and vice versa.
package console

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/service"
)

// TripService defines the trip operations the console depends on.
type TripService interface {
	Active(ctx context.Context, userID int64) (domain.Trip, error)
	Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error)
	AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error)
	AddManualDistance(ctx context.Context, tripID int64, km float64) (float64, error)
	Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error)
	List(ctx context.Context, userID int64) ([]domain.Trip, error)
}

// FuelService defines the fuel operations the console depends on.
type FuelService interface {
	Record(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error)
	Current(ctx context.Context, userID int64) (*float64, error)
}

// StatsService derives consumption statistics.
type StatsService interface {
	Stats(ctx context.Context, userID int64) (domain.FuelStats, error)
}

// Console runs an interactive menu loop over the given services on behalf of
// a single user. Input and output are injected so tests can script a session.
type Console struct {
	trips  TripService
	fuel   FuelService
	stats  StatsService
	userID int64

	in  *bufio.Scanner
	out io.Writer
}

// New constructs a Console reading from in and writing to out.
func New(trips TripService, fuel FuelService, stats StatsService, userID int64, in io.Reader, out io.Writer) *Console {
	return &Console{
		trips:  trips,
		fuel:   fuel,
		stats:  stats,
		userID: userID,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run loops over the menu until the user quits or input is exhausted.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.printMenu()
		choice, ok := c.readLine()
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			c.showStatus(ctx)
		case "2":
			c.startTrip(ctx)
		case "3":
			c.addPoint(ctx)
		case "4":
			c.addDistance(ctx)
		case "5":
			c.stopTrip(ctx)
		case "6":
			c.recordFuel(ctx)
		case "7":
			c.showStats(ctx)
		case "8":
			c.listTrips(ctx)
		case "9":
			c.exportCSV(ctx)
		case "0", "q", "Q":
			fmt.Fprintln(c.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(c.out, "Unknown option.")
		}
	}
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "=== Gas Tracker ===")
	fmt.Fprintln(c.out, "1) Show status")
	fmt.Fprintln(c.out, "2) Start trip")
	fmt.Fprintln(c.out, "3) Add GPS point")
	fmt.Fprintln(c.out, "4) Add manual distance")
	fmt.Fprintln(c.out, "5) Stop trip")
	fmt.Fprintln(c.out, "6) Record fuel level")
	fmt.Fprintln(c.out, "7) Show statistics")
	fmt.Fprintln(c.out, "8) List trips")
	fmt.Fprintln(c.out, "9) Export trips to CSV")
	fmt.Fprintln(c.out, "0) Quit")
	fmt.Fprint(c.out, "> ")
}

func (c *Console) showStatus(ctx context.Context) {
	trip, err := c.trips.Active(ctx, c.userID)
	switch {
	case err == nil:
		fmt.Fprintf(c.out, "Trip #%d in progress since %s, %.1f km so far.\n",
			trip.ID, trip.StartedAt.Format("2006-01-02 15:04"), trip.TotalDistanceKm)
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(c.out, "No trip in progress.")
	default:
		c.reportError(err)
		return
	}

	fuel, err := c.fuel.Current(ctx, c.userID)
	if err != nil {
		c.reportError(err)
		return
	}
	if fuel == nil {
		fmt.Fprintln(c.out, "No fuel level recorded yet.")
	} else {
		fmt.Fprintf(c.out, "Current fuel: %.1f L\n", *fuel)
	}
}

func (c *Console) startTrip(ctx context.Context) {
	initial, ok := c.promptOptionalFloat("Initial fuel in liters (blank to skip): ")
	if !ok {
		return
	}
	trip, err := c.trips.Start(ctx, c.userID, initial)
	switch {
	case err == nil:
		fmt.Fprintf(c.out, "Trip #%d started.\n", trip.ID)
	case errors.Is(err, domain.ErrConflict):
		fmt.Fprintln(c.out, "A trip is already in progress.")
	default:
		c.reportError(err)
	}
}

func (c *Console) addPoint(ctx context.Context) {
	trip, ok := c.requireActive(ctx)
	if !ok {
		return
	}
	lat, ok := c.promptFloat("Latitude: ")
	if !ok {
		return
	}
	lng, ok := c.promptFloat("Longitude: ")
	if !ok {
		return
	}
	result, err := c.trips.AddPoint(ctx, trip.ID, lat, lng)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "+%.2f km, trip total %.2f km.\n", result.DistanceAddedKm, result.TotalKm)
}

func (c *Console) addDistance(ctx context.Context) {
	trip, ok := c.requireActive(ctx)
	if !ok {
		return
	}
	km, ok := c.promptFloat("Distance in km: ")
	if !ok {
		return
	}
	total, err := c.trips.AddManualDistance(ctx, trip.ID, km)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Trip total is now %.2f km.\n", total)
}

func (c *Console) stopTrip(ctx context.Context) {
	trip, ok := c.requireActive(ctx)
	if !ok {
		return
	}
	final, ok := c.promptOptionalFloat("Final fuel in liters (blank to skip): ")
	if !ok {
		return
	}
	stopped, err := c.trips.Stop(ctx, trip.ID, final)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Trip #%d stopped after %.2f km.\n", stopped.ID, stopped.TotalDistanceKm)
}

func (c *Console) recordFuel(ctx context.Context) {
	liters, ok := c.promptFloat("Fuel level in liters: ")
	if !ok {
		return
	}
	if _, err := c.fuel.Record(ctx, c.userID, liters); err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Recorded %.1f L.\n", liters)
}

func (c *Console) showStats(ctx context.Context) {
	stats, err := c.stats.Stats(ctx, c.userID)
	if err != nil {
		c.reportError(err)
		return
	}
	fmt.Fprintf(c.out, "Samples: %d\n", stats.Samples)
	c.printStat("Current fuel", stats.CurrentFuelLiters, "L")
	c.printStat("Avg consumption", stats.AvgLitersPer100Km, "L/100km")
	c.printStat("Avg distance", stats.AvgKmPerDay, "km/day")
	c.printStat("Projected range", stats.ProjectedRangeKm, "km")
	c.printStat("Projected days left", stats.ProjectedDaysLeft, "days")
}

func (c *Console) printStat(label string, v *float64, unit string) {
	if v == nil {
		fmt.Fprintf(c.out, "%s: n/a\n", label)
		return
	}
	fmt.Fprintf(c.out, "%s: %.2f %s\n", label, *v, unit)
}

func (c *Console) listTrips(ctx context.Context) {
	trips, err := c.trips.List(ctx, c.userID)
	if err != nil {
		c.reportError(err)
		return
	}
	if len(trips) == 0 {
		fmt.Fprintln(c.out, "No trips yet.")
		return
	}
	for _, t := range trips {
		status := "in progress"
		if t.EndedAt != nil {
			status = "ended " + t.EndedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(c.out, "#%d  %s  %.2f km  (%s)\n",
			t.ID, t.StartedAt.Format("2006-01-02 15:04"), t.TotalDistanceKm, status)
	}
}

func (c *Console) exportCSV(ctx context.Context) {
	path, ok := c.prompt("Output file [trips_export.csv]: ")
	if !ok {
		return
	}
	if path == "" {
		path = "trips_export.csv"
	}

	trips, err := c.trips.List(ctx, c.userID)
	if err != nil {
		c.reportError(err)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(c.out, "Cannot write %s: %v\n", path, err)
		return
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(service.TripCSVHeader); err != nil {
		fmt.Fprintf(c.out, "Write failed: %v\n", err)
		return
	}
	for _, t := range trips {
		if err := cw.Write(service.TripCSVRecord(t)); err != nil {
			fmt.Fprintf(c.out, "Write failed: %v\n", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		fmt.Fprintf(c.out, "Write failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Exported %d trips to %s.\n", len(trips), path)
}

// requireActive resolves the active trip, telling the user when there is none.
func (c *Console) requireActive(ctx context.Context) (domain.Trip, bool) {
	trip, err := c.trips.Active(ctx, c.userID)
	switch {
	case err == nil:
		return trip, true
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintln(c.out, "No trip in progress.")
	default:
		c.reportError(err)
	}
	return domain.Trip{}, false
}

func (c *Console) reportError(err error) {
	if errors.Is(err, domain.ErrValidation) {
		fmt.Fprintf(c.out, "Invalid input: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Error: %v\n", err)
}

// readLine reads the next input line, returning false when input is exhausted.
func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	line, ok := c.readLine()
	return strings.TrimSpace(line), ok
}

// promptFloat asks for a number and re-prompts until it gets one.
func (c *Console) promptFloat(label string) (float64, bool) {
	for {
		line, ok := c.prompt(label)
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a number.")
			continue
		}
		return v, true
	}
}

// promptOptionalFloat asks for a number; a blank line means "none".
func (c *Console) promptOptionalFloat(label string) (*float64, bool) {
	for {
		line, ok := c.prompt(label)
		if !ok {
			return nil, false
		}
		if line == "" {
			return nil, true
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Please enter a number or leave blank.")
			continue
		}
		return &v, true
	}
}
