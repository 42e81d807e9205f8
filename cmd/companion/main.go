package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
	"wanderlens/internal/companion"
	"wanderlens/internal/config"
	"wanderlens/internal/discovery"
	"wanderlens/internal/location"
	"wanderlens/internal/models"
	"wanderlens/internal/passport"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "discover":
		err = runDiscover(ctx, cfg, os.Args[2:])
	case "passport":
		err = runPassport(ctx, cfg, os.Args[2:])
	case "save":
		err = runSave(ctx, cfg, os.Args[2:])
	case "remove":
		err = runRemove(ctx, cfg, os.Args[2:])
	case "toggle":
		err = runToggle(ctx, cfg, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: companion <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  discover   Find attractions and food spots near your position")
	fmt.Println("  passport   List saved passport entries, newest first")
	fmt.Println("  save       Save a place into the passport")
	fmt.Println("  remove     Remove a passport entry by id")
	fmt.Println("  toggle     Save a place, or remove it if already saved")
}

func runDiscover(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "Latitude override, skips IP geolocation")
	lon := fs.Float64("lon", 0, "Longitude override, skips IP geolocation")
	radius := fs.Int("radius", cfg.DiscoveryRadiusM, "Search radius in meters")
	base := fs.String("base", cfg.PlacesBaseURL, "Places backend base URL")
	backend := fs.String("passport", cfg.PassportBackend, "Passport backend: file, redis or postgres")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	fs.Parse(args)
	cfg.PlacesBaseURL = *base
	cfg.PassportBackend = *backend

	var latSet, lonSet bool
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lon":
			lonSet = true
		}
	})

	// Pick the position source
	var provider location.PositionProvider
	if latSet && lonSet {
		provider = location.StaticProvider{Coord: models.Coordinate{Lat: *lat, Lon: *lon}}
	} else {
		provider = location.NewIPProvider(cfg.GeoIPURL)
	}

	idx, closeStore, err := openPassport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	acquirer := location.NewAcquirer(provider, location.NewCache(0))
	finder := discovery.NewService(discovery.NewClient(cfg.PlacesBaseURL), *radius)
	orch := companion.NewOrchestrator(acquirer, finder, idx)

	result, err := orch.DiscoverNearby(ctx)
	if err != nil {
		var locErr *location.Error
		if errors.As(err, &locErr) {
			return fmt.Errorf("%s (%s)", locErr.Hint, locErr.Kind)
		}
		return err
	}

	if *asJSON {
		return printJSON(result)
	}

	printDiscovery(result)
	return nil
}

func runPassport(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("passport", flag.ExitOnError)
	backend := fs.String("passport", cfg.PassportBackend, "Passport backend: file, redis or postgres")
	asJSON := fs.Bool("json", false, "Print the passport as JSON")
	fs.Parse(args)
	cfg.PassportBackend = *backend

	idx, closeStore, err := openPassport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	entries := idx.Entries()
	if *asJSON {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Passport is empty.")
		return nil
	}

	fmt.Printf("Passport (%d entries, newest first):\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  [%s] %s (%s)", e.ID, e.Name, e.Category)
		if e.Info != "" {
			fmt.Printf(" - %s", e.Info)
		}
		fmt.Printf("\n      saved %s\n", e.Timestamp.Format("2006-01-02 15:04 MST"))
	}
	return nil
}

func runSave(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	name := fs.String("name", "", "Place name to save")
	id := fs.String("id", "", "Remote place id, if known")
	category := fs.String("category", "", "Entry category: attraction, food or landmark")
	info := fs.String("info", "", "Short note stored with the entry")
	backend := fs.String("passport", cfg.PassportBackend, "Passport backend: file, redis or postgres")
	fs.Parse(args)
	cfg.PassportBackend = *backend

	candidate, err := candidateFromFlags(*name, *id, *category, *info)
	if err != nil {
		return err
	}

	idx, closeStore, err := openPassport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	entry, added, err := idx.Save(ctx, candidate)
	if err != nil {
		return err
	}
	if !added {
		fmt.Printf("%q is already in the passport.\n", *name)
		return nil
	}
	fmt.Printf("Saved %q as entry %s.\n", entry.Name, entry.ID)
	return nil
}

func runRemove(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "Entry id to remove")
	backend := fs.String("passport", cfg.PassportBackend, "Passport backend: file, redis or postgres")
	fs.Parse(args)
	cfg.PassportBackend = *backend

	if *id == "" {
		return errors.New("--id flag is required")
	}

	idx, closeStore, err := openPassport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	removed, err := idx.Remove(ctx, *id)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No entry with id %s.\n", *id)
		return nil
	}
	fmt.Printf("Removed entry %s.\n", *id)
	return nil
}

func runToggle(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	name := fs.String("name", "", "Place name to toggle")
	id := fs.String("id", "", "Remote place id, if known")
	category := fs.String("category", "", "Entry category: attraction, food or landmark")
	info := fs.String("info", "", "Short note stored when saving")
	backend := fs.String("passport", cfg.PassportBackend, "Passport backend: file, redis or postgres")
	fs.Parse(args)
	cfg.PassportBackend = *backend

	candidate, err := candidateFromFlags(*name, *id, *category, *info)
	if err != nil {
		return err
	}

	idx, closeStore, err := openPassport(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	state, err := idx.Toggle(ctx, candidate)
	if err != nil {
		return err
	}
	if state.IsSaved {
		fmt.Printf("Saved %q (entry %s).\n", *name, state.MatchedEntryID)
	} else {
		fmt.Printf("Removed %q from the passport.\n", *name)
	}
	return nil
}

func candidateFromFlags(name, id, category, info string) (models.PlaceCandidate, error) {
	if name == "" {
		return models.PlaceCandidate{}, errors.New("--name flag is required")
	}
	switch models.Category(category) {
	case "", models.CategoryAttraction, models.CategoryFood, models.CategoryLandmark:
	default:
		return models.PlaceCandidate{}, fmt.Errorf("unknown category %q", category)
	}
	return models.PlaceCandidate{
		ID:          id,
		Name:        name,
		Description: info,
		Category:    models.Category(category),
	}, nil
}

// openPassport builds the passport index over the configured backend and
// returns a release func for the backing connection, if any.
func openPassport(ctx context.Context, cfg config.Config) (*passport.Index, func(), error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	idx, err := passport.NewIndex(ctx, store)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("load passport: %w", err)
	}
	return idx, closeStore, nil
}

func openStore(ctx context.Context, cfg config.Config) (passport.Store, func(), error) {
	switch cfg.PassportBackend {
	case "", "file":
		return passport.NewFileStore(cfg.PassportPath), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return passport.NewRedisStore(client, cfg.PassportKey), func() { client.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		store := passport.NewPostgresStore(pool, cfg.PassportKey)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown passport backend %q", cfg.PassportBackend)
	}
}

func printDiscovery(result *companion.Result) {
	fmt.Printf("Center: %.4f, %.4f (discovered in %s)\n", result.Center.Lat, result.Center.Lon, result.Elapsed.Round(time.Millisecond))

	fmt.Printf("\nAttractions (%d):\n", len(result.Attractions))
	printPlaces(result.Attractions)

	fmt.Printf("\nFood spots (%d):\n", len(result.FoodSpots))
	printPlaces(result.FoodSpots)
}

func printPlaces(places []companion.AnnotatedPlace) {
	if len(places) == 0 {
		fmt.Println("  (none found)")
		return
	}
	for _, p := range places {
		marker := " "
		if p.Saved.IsSaved {
			marker = "*"
		}
		fmt.Printf("%s %s (%s) - %.1f km, %.0f min walk\n", marker, p.Name, p.Type, p.DistanceKm, p.WalkingMinutes)
		if p.Address != "" {
			fmt.Printf("      %s\n", p.Address)
		}
	}
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
