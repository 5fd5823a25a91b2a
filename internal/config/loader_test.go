package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/jobfeed/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"JOBFEED_CONFIG", "JOBFEED_ADDR", "JOBFEED_API_KEY", "JOBFEED_LOCATION_ID",
	"JOBFEED_JOBS_OBJECT_NAME", "JOBFEED_PAGE_LIMIT", "JOBFEED_MAX_JOBS",
	"JOBFEED_HIDDEN_TAGS", "JOBFEED_REQUEST_TIMEOUT_MS", "JOBFEED_LOG_FORMAT",
	"GHL_API_KEY", "GHL_LOCATION_ID", "GHL_JOBS_OBJECT_NAME", "GHL_HIDDEN_TAGS",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "jobfeed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.JobsObjectName, convey.ShouldEqual, "custom_objects.jobs")
			convey.So(cfg.APIVersion, convey.ShouldEqual, "2021-07-28")
			convey.So(cfg.PageLimit, convey.ShouldEqual, 12)
			convey.So(cfg.MaxJobs, convey.ShouldEqual, 3)
			convey.So(cfg.HiddenTags, convey.ShouldResemble, []string{"dont_post_to_website"})
			convey.So(cfg.RequestTimeout().Seconds(), convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then credentials are empty but loading succeeds", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldBeEmpty)
				convey.So(cfg.LocationID, convey.ShouldBeEmpty)
				convey.So(cfg.JobsObjectName, convey.ShouldEqual, config.DefaultJobsObjectName)
			})
		})

		convey.Convey("When the legacy GHL_ variables are set", func() {
			_ = os.Setenv("GHL_API_KEY", "  secret  ")
			_ = os.Setenv("GHL_LOCATION_ID", "loc-1")
			_ = os.Setenv("GHL_JOBS_OBJECT_NAME", "custom_objects.projects")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they populate the CRM settings", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.LocationID, convey.ShouldEqual, "loc-1")
				convey.So(cfg.JobsObjectName, convey.ShouldEqual, "custom_objects.projects")
			})
		})

		convey.Convey("When both GHL_ and JOBFEED_ set the same key", func() {
			_ = os.Setenv("GHL_API_KEY", "legacy")
			_ = os.Setenv("JOBFEED_API_KEY", "current")

			cfg, err := config.Load(ctx)

			convey.Convey("Then JOBFEED_ wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldEqual, "current")
			})
		})

		convey.Convey("When the object name is set but blank", func() {
			_ = os.Setenv("GHL_JOBS_OBJECT_NAME", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the default name is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.JobsObjectName, convey.ShouldEqual, config.DefaultJobsObjectName)
			})
		})

		convey.Convey("When hidden tags come from the environment", func() {
			_ = os.Setenv("JOBFEED_HIDDEN_TAGS", "dont_post_to_website, archived")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they are split and trimmed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HiddenTags, convey.ShouldResemble, []string{"dont_post_to_website", "archived"})
			})
		})

		convey.Convey("When hidden tags come from the legacy prefix", func() {
			_ = os.Setenv("GHL_HIDDEN_TAGS", "draft,,internal_only")

			cfg, err := config.Load(ctx)

			convey.Convey("Then each tag is kept separately and blanks are dropped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HiddenTags, convey.ShouldResemble, []string{"draft", "internal_only"})
			})
		})

		convey.Convey("When loading config with YAML file and env overrides", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
page_limit: 20
max_jobs: 4
location_id: "from-file"
hidden_tags: ["hidden", "draft"]
`)
			_ = os.Setenv("JOBFEED_CONFIG", path)
			_ = os.Setenv("JOBFEED_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PageLimit, convey.ShouldEqual, 20)
				convey.So(cfg.MaxJobs, convey.ShouldEqual, 4)
				convey.So(cfg.LocationID, convey.ShouldEqual, "from-file")
				convey.So(cfg.HiddenTags, convey.ShouldResemble, []string{"hidden", "draft"})
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("JOBFEED_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("JOBFEED_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("JOBFEED_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("JOBFEED_PAGE_LIMIT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When max_jobs is zero", func() {
			_ = os.Setenv("JOBFEED_MAX_JOBS", "0")

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
