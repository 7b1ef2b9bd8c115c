package main

import (
	"flag"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	chord_daemon "github.com/WelcomerTeam/Chord/internal"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	_ = godotenv.Load()

	configurationPath := flag.String("configurationPath", os.Getenv("CONFIGURATION_PATH"), "Path of the yaml configuration file")
	prometheusAddress := flag.String("prometheusAddress", os.Getenv("PROMETHEUS_ADDRESS"), "Host to serve prometheus metrics from")
	gatewayURL := flag.String("gatewayURL", os.Getenv("GATEWAY_URL"), "Websocket url the consumer dials. Empty uses the default gateway")
	baseURL := flag.String("baseURL", os.Getenv("BASE_URL"), "Url http requests route to. Empty uses discord.com")
	httpHost := flag.String("httpHost", os.Getenv("HTTP_HOST"), "Host to serve the status api from")
	httpEnabled := flag.Bool("httpEnabled", envBool("HTTP_ENABLED"), "Enables the status api")

	loggingLevel := flag.String("level", os.Getenv("LOGGING_LEVEL"), "Global log level")

	loggingFileLoggingEnabled := flag.Bool("fileLoggingEnabled", envBool("LOGGING_FILE_LOGGING_ENABLED"), "When enabled, will save logs to files")
	loggingEncodeAsJSON := flag.Bool("encodeAsJSON", envBool("LOGGING_ENCODE_AS_JSON"), "When enabled, will save logs as json")
	loggingDirectory := flag.String("directory", os.Getenv("LOGGING_DIRECTORY"), "Directory to store logs in")
	loggingFilename := flag.String("filename", os.Getenv("LOGGING_FILENAME"), "Filename to store logs as")
	loggingMaxSize := flag.Int("maxSize", envInt("LOGGING_MAX_SIZE", 100), "Maximum size in megabytes for a log file before it is rotated")
	loggingMaxBackups := flag.Int("maxBackups", envInt("LOGGING_MAX_BACKUPS", 0), "Maximum number of rotated log files to keep")
	loggingMaxAge := flag.Int("maxAge", envInt("LOGGING_MAX_AGE", 0), "Maximum age in days for a log file")
	loggingCompress := flag.Bool("compress", envBool("LOGGING_COMPRESS"), "When enabled, will compress rotated log files")

	flag.Parse()

	if *configurationPath == "" {
		*configurationPath = "chord.yaml"
	}

	if *prometheusAddress == "" {
		*prometheusAddress = ":8001"
	}

	if *loggingDirectory == "" {
		*loggingDirectory = "logs"
	}

	if *loggingFilename == "" {
		*loggingFilename = "chord.log"
	}

	level, err := zerolog.ParseLevel(*loggingLevel)
	if err != nil || *loggingLevel == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.Stamp,
	}

	writers := []io.Writer{consoleWriter}

	if *loggingFileLoggingEnabled {
		err = os.MkdirAll(*loggingDirectory, chord_daemon.PermissionsDefault)
		if err != nil {
			consoleWriter.Write([]byte("failed to create logging directory: " + err.Error() + "\n"))

			os.Exit(1)
		}

		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(*loggingDirectory, *loggingFilename),
			MaxSize:    *loggingMaxSize,
			MaxBackups: *loggingMaxBackups,
			MaxAge:     *loggingMaxAge,
			Compress:   *loggingCompress,
		}

		if *loggingEncodeAsJSON {
			writers = append(writers, fileWriter)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        fileWriter,
				TimeFormat: time.Stamp,
				NoColor:    true,
			})
		}
	}

	logWriter := io.MultiWriter(writers...)

	logger := zerolog.New(logWriter).With().Timestamp().Logger()

	options := chord_daemon.DaemonOptions{
		ConfigurationLocation: *configurationPath,
		PrometheusAddress:     *prometheusAddress,
		HTTPHost:              *httpHost,
		HTTPEnabled:           *httpEnabled,
	}

	if *gatewayURL != "" {
		parsedURL, err := url.Parse(*gatewayURL)
		if err != nil {
			logger.Panic().Err(err).Msg("Failed to parse gateway url")
		}

		options.GatewayURL = *parsedURL
	}

	if *baseURL != "" {
		parsedURL, err := url.Parse(*baseURL)
		if err != nil {
			logger.Panic().Err(err).Msg("Failed to parse base url")
		}

		options.BaseURL = *parsedURL
	}

	daemon, err := chord_daemon.NewDaemon(logWriter, options)
	if err != nil {
		logger.Panic().Err(err).Msg("Failed to create chord daemon")
	}

	err = daemon.Open()
	if err != nil {
		logger.Panic().Err(err).Msg("Failed to open chord daemon")
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	<-signalCh

	err = daemon.Close()
	if err != nil {
		logger.Warn().Err(err).Msg("Exception whilst closing chord daemon")
	}
}

func envBool(key string) bool {
	value, _ := strconv.ParseBool(os.Getenv(key))

	return value
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
