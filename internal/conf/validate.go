// conf/validate.go

package conf

import (
	"fmt"
	"net/url"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validateLogSettings(&settings.Log)...)
	ve.Errors = append(ve.Errors, validateTelemetrySettings(&settings.Telemetry)...)
	ve.Errors = append(ve.Errors, validateDataSettings(&settings.Data)...)
	ve.Errors = append(ve.Errors, validatePlaybackSettings(&settings.Playback)...)
	ve.Errors = append(ve.Errors, validateWheelSettings(&settings.Wheel)...)
	ve.Errors = append(ve.Errors, validateScatterSettings(&settings.Scatter)...)
	ve.Errors = append(ve.Errors, validateHabitats(settings.Habitats, settings.Birds)...)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateLogSettings(settings *LogSettings) []string {
	if settings.Level != "" && !slices.Contains(validLogLevels, settings.Level) {
		return []string{fmt.Sprintf("log.level must be one of %v, got %q", validLogLevels, settings.Level)}
	}
	return nil
}

func validateTelemetrySettings(settings *TelemetrySettings) []string {
	if settings.Enabled && settings.DSN == "" {
		return []string{"telemetry.dsn is required when telemetry is enabled"}
	}
	return nil
}

func validateDataSettings(settings *DataSettings) []string {
	var errs []string

	if settings.Manifest == "" {
		errs = append(errs, "data.manifest must not be empty")
	}
	if settings.BaseURL != "" {
		u, err := url.Parse(settings.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("data.baseurl must be an absolute http(s) URL, got %q", settings.BaseURL))
		}
	}
	if settings.Timeout < 0 {
		errs = append(errs, "data.timeout must not be negative")
	}
	if settings.RateLimit < 0 {
		errs = append(errs, "data.ratelimit must not be negative")
	}
	if settings.CacheTTL < 0 {
		errs = append(errs, "data.cachettl must not be negative")
	}

	return errs
}

func validatePlaybackSettings(settings *PlaybackSettings) []string {
	var errs []string

	if settings.LoopDuration <= 0 {
		errs = append(errs, "playback.loopduration must be greater than 0")
	}
	if settings.MaxDuration < settings.LoopDuration {
		errs = append(errs, "playback.maxduration must not be less than playback.loopduration")
	}
	if settings.FrameInterval <= 0 {
		errs = append(errs, "playback.frameinterval must be greater than 0")
	}

	return errs
}

func validateWheelSettings(settings *WheelSettings) []string {
	var errs []string

	if settings.Width <= 0 || settings.Height <= 0 {
		errs = append(errs, "wheel.width and wheel.height must be greater than 0")
	}
	if settings.Radius <= 0 {
		errs = append(errs, "wheel.radius must be greater than 0")
	}
	if settings.RimOffset < 0 {
		errs = append(errs, "wheel.rimoffset must not be negative")
	}
	if 2*(settings.Radius+settings.RimOffset) > min(settings.Width, settings.Height) {
		errs = append(errs, "wheel.radius plus wheel.rimoffset must fit inside the canvas")
	}
	if settings.Rings < 0 {
		errs = append(errs, "wheel.rings must not be negative")
	}
	if settings.SpokeStep <= 0 || settings.SpokeStep > 360 {
		errs = append(errs, "wheel.spokestep must be in (0, 360]")
	}
	if settings.MarkRadius <= 0 {
		errs = append(errs, "wheel.markradius must be greater than 0")
	}
	if settings.OpacityExponent <= 0 {
		errs = append(errs, "wheel.opacityexponent must be greater than 0")
	}

	return errs
}

func validateScatterSettings(settings *ScatterSettings) []string {
	var errs []string

	if settings.Width <= 0 || settings.Height <= 0 {
		errs = append(errs, "scatter.width and scatter.height must be greater than 0")
	}
	if settings.Margin < 0 || 2*settings.Margin >= min(settings.Width, settings.Height) {
		errs = append(errs, "scatter.margin must be non-negative and leave room for the plot")
	}
	if settings.TimeMax <= 0 || settings.FrequencyMax <= 0 || settings.VolumeMax <= 0 {
		errs = append(errs, "scatter.timemax, scatter.frequencymax and scatter.volumemax must be greater than 0")
	}
	if settings.SizeMin < 0 || settings.SizeMin > settings.SizeMax {
		errs = append(errs, "scatter.sizemin must be in [0, scatter.sizemax]")
	}
	if settings.Opacity < 0 || settings.Opacity > 1 {
		errs = append(errs, "scatter.opacity must be in [0, 1]")
	}
	if settings.Ticks < 0 {
		errs = append(errs, "scatter.ticks must not be negative")
	}

	return errs
}

func validateHabitats(habitats map[string]HabitatSettings, birds []BirdHabitat) []string {
	var errs []string

	for name, habitat := range habitats {
		if len(habitat.Colors) != 2 {
			errs = append(errs, fmt.Sprintf("habitats.%s.colors must hold exactly two colours", name))
			continue
		}
		for _, c := range habitat.Colors {
			if _, err := colorful.Hex(c); err != nil {
				errs = append(errs, fmt.Sprintf("habitats.%s.colors: invalid colour %q", name, c))
			}
		}
	}

	seen := make(map[string]bool, len(birds))
	for _, b := range birds {
		switch {
		case b.Title == "":
			errs = append(errs, "birds: entry with empty title")
		case seen[b.Title]:
			errs = append(errs, fmt.Sprintf("birds: duplicate title %q", b.Title))
		case habitats[b.Habitat].Colors == nil:
			errs = append(errs, fmt.Sprintf("birds: %q refers to unknown habitat %q", b.Title, b.Habitat))
		}
		seen[b.Title] = true
	}

	return errs
}
