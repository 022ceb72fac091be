// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gardener/repoingest/cmd/configuration"
	"github.com/gardener/repoingest/pkg/ingest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

func exec(ctx context.Context, cmd *cobra.Command, vip *viper.Viper, source string) error {
	var opts options
	if err := vip.Unmarshal(&opts); err != nil {
		return err
	}
	config, err := configuration.DefaultLoader{}.Load()
	if err != nil {
		return err
	}
	klog.V(1).Infof("ingesting %s", source)

	ingestOpts, output := ingestOptions(opts, config, cmd.Flags().Changed)
	digest, err := ingest.Ingest(ctx, source, ingestOpts...)
	if err != nil {
		return err
	}

	// the summary goes to stderr so that stdout carries only the digest
	// location (or, with --output -, the digest itself)
	fmt.Fprint(os.Stderr, digest.Summary)
	if output != "-" {
		abs, pathErr := filepath.Abs(output)
		if pathErr != nil {
			abs = output
		}
		fmt.Println(abs)
	}
	return nil
}
