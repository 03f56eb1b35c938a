package main

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/xbouncing"
	"github.com/bodgit/xbouncing/config"
	"github.com/bodgit/xbouncing/dump"
	"github.com/bodgit/xbouncing/xbm"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"
)

const (
	defaultConfig = "xbm.yaml"
	defaultDB     = "logos.db"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type options struct {
	config.Config
	logger *log.Logger
}

func setup(c *cli.Context) (*options, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") || cfg.Database == "" {
		cfg.Database = c.String("db")
	}

	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return &options{cfg, logger}, nil
}

func openInput(c *cli.Context) (io.ReadCloser, error) {
	if c.NArg() < 1 || c.Args().First() == "-" {
		return ioutil.NopCloser(os.Stdin), nil
	}
	return os.Open(c.Args().First())
}

func openLibrary(o *options) (*xbouncing.Library, func() error, error) {
	s, err := xbouncing.Open(o.Database)
	if err != nil {
		return nil, nil, err
	}
	return xbouncing.New(s, o.logger, o.Limit), s.Close, nil
}

func dumpAction(c *cli.Context) error {
	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := openInput(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	var b xbm.Bitmap
	defer b.Release()

	w, h, err := xbm.LoadLimit(f, &b, o.Limit)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	o.logger.Printf("Loaded %dx%d image, %d bytes\n", w, h, b.Len())

	if err := dump.Write(os.Stdout, b.Bits(), o.Columns); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func infoAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, file := range c.Args().Slice() {
		f, err := os.Open(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		var b xbm.Bitmap
		w, h, err := xbm.LoadLimit(f, &b, o.Limit)
		f.Close()
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
		}
		fmt.Printf("%s: %dx%d (%d bytes)\n", file, w, h, b.Len())
		b.Release()
	}

	return nil
}

func writeImage(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		err = png.Encode(f, m)
	case ".gif":
		err = gif.Encode(f, m, nil)
	case ".bmp":
		err = bmp.Encode(f, m)
	case ".xbm":
		err = xbm.Encode(f, logoName(file), m)
	default:
		return fmt.Errorf("unsupported output format \"%s\"", filepath.Ext(file))
	}
	if err != nil {
		return err
	}

	return f.Close()
}

func logoName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func convertAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	m, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	o.logger.Printf("Decoded %s image %v\n", format, m.Bounds())

	if err := writeImage(c.Args().Get(1), m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func encodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	name := c.Args().Get(1)
	if name == "" {
		name = logoName(c.Args().First())
	}

	if err := xbm.Encode(os.Stdout, name, m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func importAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	l, closer, err := openLibrary(o)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	path := c.Args().First()
	info, err := os.Stat(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if info.IsDir() {
		err = l.ImportDir(path)
	} else {
		err = l.Import(path)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func exportAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	l, closer, err := openLibrary(o)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer closer()

	name := c.Args().First()
	b, mask, err := l.Logo(name)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := xbm.EncodeBitmap(os.Stdout, name, b); err != nil {
		return cli.NewExitError(err, 1)
	}
	if c.Bool("mask") {
		if err := xbm.EncodeBitmap(os.Stdout, name+"_mask", mask); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}

func listAction(c *cli.Context) error {
	o, err := setup(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	s, err := xbouncing.Open(o.Database)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	entries, err := s.List()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, e := range entries {
		fmt.Printf("%s\t%dx%d\t%d\t%s\n", e.Name, e.Width, e.Height, e.Size, e.SHA1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "xbm"
	app.Usage = "X BitMap utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"XBM_CONFIG"},
			Value:   filepath.Join(cwd, defaultConfig),
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"XBM_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to logo database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "dump",
			Usage:       "Print the bytes of an XBM image",
			Description: "Reads FILE, or standard input if omitted, and prints each byte as two hex digits",
			ArgsUsage:   "[FILE]",
			Action:      dumpAction,
		},
		{
			Name:      "info",
			Usage:     "Print the dimensions of XBM images",
			ArgsUsage: "FILE...",
			Action:    infoAction,
		},
		{
			Name:        "convert",
			Usage:       "Convert an image to another format",
			Description: "The output format is chosen by the extension of OUTPUT, one of .png, .gif, .bmp or .xbm",
			ArgsUsage:   "INPUT OUTPUT",
			Action:      convertAction,
		},
		{
			Name:      "encode",
			Usage:     "Encode an image as XBM on standard output",
			ArgsUsage: "FILE [NAME]",
			Action:    encodeAction,
		},
		{
			Name:      "import",
			Usage:     "Import an XBM file or a directory of XBM files",
			ArgsUsage: "PATH",
			Action:    importAction,
		},
		{
			Name:      "export",
			Usage:     "Print a stored logo as XBM",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "mask",
					Usage: "also print the mask",
				},
			},
			Action: exportAction,
		},
		{
			Name:   "list",
			Usage:  "List stored logos",
			Action: listAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
