package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/tictactoe-vision/internal/board"
	"github.com/ironsheep/tictactoe-vision/internal/classify"
	"github.com/ironsheep/tictactoe-vision/internal/imaging"
	"github.com/ironsheep/tictactoe-vision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// logLevelEnv enables debug logging when set to "debug".
const logLevelEnv = "TTT_VISION_LOG_LEVEL"

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "tictactoe-vision %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	}

	th, err := classify.ThresholdsFromEnv(classify.DefaultThresholds())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	debug := os.Getenv(logLevelEnv) == "debug"

	switch cmd {
	case "serve":
		if debug {
			log.Printf("tictactoe-vision v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
			log.Printf("thresholds: %+v", th)
		}
		srv := server.NewWithThresholds(th)
		srv.SetDebug(debug)
		if err := srv.Run(); err != nil {
			log.Printf("Server error: %v", err)
			return 1
		}
		return 0
	case "check", "read":
		if len(args) != 2 {
			fmt.Fprintf(stderr, "Usage: tictactoe-vision %s <image>\n", cmd)
			return 2
		}
		reader := board.NewReader(imaging.NewImageCache(), classify.NewExact(th))
		reading, err := reader.Read(args[1])
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if cmd == "read" {
			fmt.Fprintln(stdout, reading.Board)
			if debug {
				for _, row := range reading.Cells {
					for _, c := range row {
						log.Printf("cell (%d,%d): %q via %s, ink %.3f", c.Row, c.Col, c.Symbol, c.Detector, c.WhiteRatio)
					}
				}
			}
		}
		fmt.Fprintln(stdout, reading.Verdict)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "tictactoe-vision - read the state of a photographed tic-tac-toe board")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tictactoe-vision check <image>   Print X Wins, O Wins, Draw or Ongoing")
	fmt.Fprintln(w, "  tictactoe-vision read <image>    Print the 3x3 grid and the verdict")
	fmt.Fprintln(w, "  tictactoe-vision [serve]         Run the MCP server on stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Enable debug logging\n", logLevelEnv)
	for _, env := range []string{
		classify.EnvEmptyWhiteRatio,
		classify.EnvMinContourAreaFrac,
		classify.EnvFilledAreaFrac,
		classify.EnvCircularity,
		classify.EnvAspect,
		classify.EnvDiagEnergy,
		classify.EnvBothDiagMinShare,
		classify.EnvMaxAxisShare,
	} {
		fmt.Fprintf(w, "  %s    Override a classifier threshold\n", env)
	}
}
