package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/go-spatial/geom"
	"github.com/iancoleman/strcase"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"tilegrab/internal/config"
	"tilegrab/internal/downloads"
	"tilegrab/internal/fetch"
	"tilegrab/internal/materialize"
	"tilegrab/internal/progress"
	"tilegrab/internal/pyramid"
	"tilegrab/internal/telemetry"
)

const SERVICE string = `service`
const TILEURL string = `tileurl`
const AOI string = `aoi`
const EXTENT string = `extent`
const DEST string = `dest`
const LEVELS string = `levels`
const QUIET string = `quiet`

func main() {
	app := cli.NewApp()
	app.Name = "tilegrab"
	app.Usage = "Materialize an exploded tile cache for an area of interest"
	app.Version = versioninfo.Short()

	serviceFlag := &cli.StringFlag{
		Name:     SERVICE,
		Aliases:  []string{"s"},
		Usage:    "Tile service URL, or path to a local service descriptor JSON file",
		Required: true,
		EnvVars:  []string{strcase.ToScreamingSnake(SERVICE)},
	}
	tileURLFlag := &cli.StringFlag{
		Name:    TILEURL,
		Aliases: []string{"u"},
		Usage:   "Tile endpoint base URL. Required when the service descriptor is a local file",
		EnvVars: []string{strcase.ToScreamingSnake(TILEURL)},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "fetch",
			Usage: "Download all tiles covering the area of interest",
			Flags: []cli.Flag{
				serviceFlag,
				tileURLFlag,
				&cli.StringFlag{
					Name:    AOI,
					Aliases: []string{"a"},
					Usage:   "Path to a GeoJSON file whose bounding box is the area of interest",
					EnvVars: []string{strcase.ToScreamingSnake(AOI)},
				},
				&cli.StringFlag{
					Name:    EXTENT,
					Aliases: []string{"e"},
					Usage:   `Area of interest as a JSON array [xmin,ymin,xmax,ymax] in the pyramid's ground units`,
					EnvVars: []string{strcase.ToScreamingSnake(EXTENT)},
				},
				&cli.StringFlag{
					Name:    DEST,
					Aliases: []string{"d"},
					Usage:   "Destination root directory. Defaults to the configured download path",
					EnvVars: []string{strcase.ToScreamingSnake(DEST)},
				},
				&cli.StringFlag{
					Name:    LEVELS,
					Aliases: []string{"z"},
					Usage:   `Levels to materialize, as a JSON array of integers. E.g.: [10,11,12]. Defaults to every native level`,
					EnvVars: []string{strcase.ToScreamingSnake(LEVELS)},
				},
				&cli.BoolFlag{
					Name:    QUIET,
					Aliases: []string{"q"},
					Usage:   "Suppress the progress bar",
					EnvVars: []string{strcase.ToScreamingSnake(QUIET)},
				},
			},
			Action: runFetch,
		},
		{
			Name:   "info",
			Usage:  "Print the pyramid layout of a tile service",
			Flags:  []cli.Flag{serviceFlag, tileURLFlag},
			Action: runInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runFetch(c *cli.Context) error {
	settings, err := config.Load(config.SettingsPath())
	if err != nil {
		return err
	}

	desc, err := pyramid.Load(c.String(SERVICE), c.String(TILEURL))
	if err != nil {
		return err
	}
	if c.IsSet(LEVELS) {
		if err := filterLevels(desc, c.String(LEVELS)); err != nil {
			return err
		}
	}

	ext, err := resolveExtent(c)
	if err != nil {
		return err
	}

	dest := c.String(DEST)
	if dest == "" {
		dest = settings.DownloadPath
	}

	client := fetch.NewClientWithOptions(
		time.Duration(settings.RequestTimeoutSeconds)*time.Second,
		settings.UserAgent,
	)
	materializer := materialize.New(client, desc.Origin, desc.TileSize())

	tracker := telemetry.New(settings.TelemetryKey, settings.TelemetryHost)
	defer tracker.Close()

	var sink progress.Sink
	if !c.Bool(QUIET) {
		var bar *progressbar.ProgressBar
		sink = func(s progress.Snapshot) {
			if bar == nil {
				bar = progressbar.Default(int64(s.TotalTiles), "tiles")
			}
			bar.Set(s.DoneTiles)
		}
	}

	d := downloads.NewDownloader(materializer, desc, dest, sink, func(msg string) {
		log.Print(msg)
	}, tracker.Track)

	return d.Run(c.Context, *ext)
}

func runInfo(c *cli.Context) error {
	desc, err := pyramid.Load(c.String(SERVICE), c.String(TILEURL))
	if err != nil {
		return err
	}

	fmt.Printf("tile endpoint: %s\n", desc.BaseURL)
	fmt.Printf("spatial reference: %d\n", desc.WKID)
	fmt.Printf("tile size: %dx%d\n", desc.TileCols, desc.TileRows)
	fmt.Printf("origin: (%g, %g)\n", desc.Origin.X, desc.Origin.Y)
	fmt.Printf("levels: %d\n", len(desc.LODs))
	for _, lod := range desc.LODs {
		fmt.Printf("  L%02d resolution=%g scale=%g\n", lod.Level, lod.Resolution, lod.Scale)
	}
	return nil
}

// resolveExtent takes the area of interest from exactly one of the AOI and
// EXTENT flags.
func resolveExtent(c *cli.Context) (*geom.Extent, error) {
	aoi, bbox := c.String(AOI), c.String(EXTENT)
	switch {
	case aoi != "" && bbox != "":
		return nil, fmt.Errorf("flags --%s and --%s are mutually exclusive", AOI, EXTENT)
	case aoi != "":
		return pyramid.ExtentFromGeoJSON(aoi)
	case bbox != "":
		return pyramid.ExtentFromBBox(bbox)
	default:
		return nil, fmt.Errorf("an area of interest is required: pass --%s or --%s", AOI, EXTENT)
	}
}

// filterLevels restricts the descriptor to the requested levels. Requesting a
// level the pyramid does not serve natively is an error.
func filterLevels(desc *pyramid.Descriptor, raw string) error {
	var levels []int
	if err := json.Unmarshal([]byte(raw), &levels); err != nil {
		return fmt.Errorf("invalid levels %q: %w", raw, err)
	}
	wanted := make(map[int]bool, len(levels))
	for _, l := range levels {
		wanted[l] = true
	}

	kept := desc.LODs[:0]
	for _, lod := range desc.LODs {
		if wanted[lod.Level] {
			kept = append(kept, lod)
			delete(wanted, lod.Level)
		}
	}
	if len(wanted) > 0 {
		for l := range wanted {
			return fmt.Errorf("level %d is not served natively by this pyramid", l)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("no levels selected")
	}
	desc.LODs = kept
	return nil
}
