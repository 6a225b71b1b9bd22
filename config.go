package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type config struct {
	Verbose        bool
	Quiet          bool
	StripRoot      bool
	FollowSymlinks bool
	PathEncoding   string
}

func defaultConfig() config {
	return config{}
}

// bindConfig resolves settings from flags first, then PAKPACK_* variables,
// then defaults.
func bindConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("PAKPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := defaultConfig()
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("strip-root", defaults.StripRoot)
	v.SetDefault("follow-symlinks", defaults.FollowSymlinks)
	v.SetDefault("path-encoding", defaults.PathEncoding)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	return v, nil
}

func loadConfig(v *viper.Viper) config {
	return config{
		Verbose:        v.GetBool("verbose"),
		Quiet:          v.GetBool("quiet"),
		StripRoot:      v.GetBool("strip-root"),
		FollowSymlinks: v.GetBool("follow-symlinks"),
		PathEncoding:   v.GetString("path-encoding"),
	}
}
