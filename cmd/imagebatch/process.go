package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-batch-tools/internal/discovery"
	"github.com/ironsheep/image-batch-tools/internal/imaging"
	"github.com/ironsheep/image-batch-tools/internal/manager"
	"github.com/ironsheep/image-batch-tools/internal/persist"
	"github.com/ironsheep/image-batch-tools/internal/transform"
)

// sourceFlags selects the input images; shared by process and info.
type sourceFlags struct {
	src       string
	recursive bool
	exts      []string
	types     []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.src, "src", "", "directory to read images from")
	cmd.Flags().BoolVar(&f.recursive, "recursive", false, "descend into subdirectories")
	cmd.Flags().StringSliceVar(&f.exts, "ext", nil, "file extensions to include (default: all supported)")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "image types to include: png, jpg, gif, bmp, tiff, webp, all")
	cmd.MarkFlagsMutuallyExclusive("ext", "type")
	_ = cmd.MarkFlagRequired("src")
}

func (f *sourceFlags) open(opts ...manager.Option) (*manager.Manager, error) {
	exts := f.exts
	if len(f.types) > 0 {
		t, err := discovery.ParseTypes(f.types)
		if err != nil {
			return nil, err
		}
		exts = t.Extensions()
	}
	mode := discovery.TopLevel
	if f.recursive {
		mode = discovery.Recursive
	}
	return manager.OpenDir(f.src, exts, mode, opts...)
}

type processFlags struct {
	source        sourceFlags
	dst           string
	scale         float64
	interpolation string
	wrap          string
	preset        string
	amount        float64
	format        string
	suffix        string
	quality       int
	workers       int
	concurrency   int
	createDir     bool
	original      bool
}

func newProcessCmd() *cobra.Command {
	var f processFlags
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Scale or transform every image under --src and write the results to --dst",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, &f)
		},
	}

	f.source.register(cmd)
	cmd.Flags().StringVar(&f.dst, "dst", "", "output directory")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "scale factor; the sign is ignored")
	cmd.Flags().StringVar(&f.interpolation, "interpolation", imaging.InterpolationHighQualityBicubic.String(), "resampling mode")
	cmd.Flags().StringVar(&f.wrap, "wrap", imaging.WrapTile.String(), "edge sampling: Tile or TileFlipXY")
	cmd.Flags().StringVar(&f.preset, "preset", "", fmt.Sprintf("pixel preset %v", transform.PresetNames()))
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "preset amount")
	cmd.Flags().StringVar(&f.format, "format", "png", "output format: png, jpeg, gif, tiff, bmp")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "appended to each output file name before the extension")
	cmd.Flags().IntVar(&f.quality, "quality", persist.DefaultJPEGQuality, "JPEG quality 1-100")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "row workers per transform (default: number of CPUs)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "concurrent encodes while saving (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.createDir, "create-dir", false, "create --dst if it does not exist")
	cmd.Flags().BoolVar(&f.original, "original", false, "save the unmodified originals")
	_ = cmd.MarkFlagRequired("dst")
	cmd.MarkFlagsMutuallyExclusive("scale", "preset")
	return cmd
}

func runProcess(cmd *cobra.Command, f *processFlags) error {
	format, err := persist.ParseFormat(f.format)
	if err != nil {
		return err
	}
	criteria := imaging.DefaultResizeCriteria()
	if criteria.Interpolation, err = imaging.ParseInterpolation(f.interpolation); err != nil {
		return err
	}
	if criteria.Wrap, err = imaging.ParseWrapMode(f.wrap); err != nil {
		return err
	}
	var fn transform.PixelFunc
	if f.preset != "" {
		if fn, err = transform.Preset(f.preset, f.amount); err != nil {
			return err
		}
	}

	m, err := f.source.open(manager.WithEngine(transform.New(transform.WithMaxParallelism(f.workers))))
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case cmd.Flags().Changed("scale"):
		err = m.ScaleAllAndReplace(f.scale, criteria)
	case fn != nil:
		err = m.TransformAll(fn)
	}
	if err != nil {
		return err
	}

	set := manager.Modified
	if f.original {
		set = manager.Original
	}
	written, err := m.Save(cmd.Context(), manager.SaveConfig{
		Set:             set,
		Destination:     f.dst,
		Format:          format,
		Suffix:          f.suffix,
		JPEGQuality:     f.quality,
		CreateIfMissing: f.createDir,
		MaxConcurrency:  f.concurrency,
	})
	for _, p := range written {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return err
}
