package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	sigil "github.com/sigil-net/sigil"
	"github.com/sigil-net/sigil/internal/config"
	"github.com/sigil-net/sigil/pkg/locator"
	"github.com/sigil-net/sigil/pkg/mediatypes"
	"github.com/sigil-net/sigil/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	conf, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "decode":
		cmdDecode(os.Args[2:])
	case "encode":
		cmdEncode(os.Args[2:])
	case "put":
		cmdPut(conf, os.Args[2:])
	case "cat":
		cmdCat(conf, os.Args[2:])
	case "alias":
		cmdAlias(conf, os.Args[2:])
	case "resolve":
		cmdResolve(conf, os.Args[2:])
	case "unalias":
		cmdUnalias(conf, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: sigil <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  decode <url>")
	fmt.Println("  encode [-tag N] [-dtype N] [-media TYPE] [-base NAME] <hex-hash>")
	fmt.Println("  put [-media TYPE] <file>")
	fmt.Println("  cat [-o FILE] <url>")
	fmt.Println("  alias <name> <target-url>")
	fmt.Println("  resolve <url>")
	fmt.Println("  unalias <name>")
}

func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".sigil", "config.yaml")
}

func openSigil(conf config.Config) *sigil.Sigil {
	base, err := locator.ParseBase(conf.DefaultBase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid defaultBase in config: %v\n", err)
		os.Exit(1)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logLevel in config: %v\n", err)
		os.Exit(1)
	}
	logger.SetLevel(level)

	instance, err := sigil.New(sigil.Config{
		Paths:         []string{conf.DataDir},
		MinimumFreeGB: conf.MinimumFreeGB,
		DefaultBase:   base,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing store: %v\n", err)
		os.Exit(1)
	}
	return instance
}

func cmdDecode(args []string) {
	decodeCmd := flag.NewFlagSet("decode", flag.ExitOnError)
	decodeCmd.Parse(args)
	if decodeCmd.NArg() < 1 {
		fmt.Println("Usage: sigil decode <url>")
		os.Exit(1)
	}

	loc, err := locator.FromURL(decodeCmd.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding URL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Hash:          %s\n", loc.Hash())
	fmt.Printf("Type tag:      %d\n", loc.TypeTag())
	fmt.Printf("Data type:     %s\n", loc.DataType())
	fmt.Printf("Content type:  %s\n", loc.ContentType())
	if loc.IsAlias() {
		fmt.Printf("Alias host:    %s\n", loc.AliasHost())
	}
	if path := loc.Path(); path != "" {
		fmt.Printf("Path:          %s\n", path)
	}
	if q := loc.QueryString(); q != "" {
		fmt.Printf("Query:         %s\n", q)
	}
	if f := loc.Fragment(); f != "" {
		fmt.Printf("Fragment:      %s\n", f)
	}
	if v, ok := loc.ContentVersion(); ok {
		fmt.Printf("Version:       %d\n", v)
	}
}

func cmdEncode(args []string) {
	encodeCmd := flag.NewFlagSet("encode", flag.ExitOnError)
	tag := encodeCmd.Uint64("tag", 0, "type tag")
	dtype := encodeCmd.Uint("dtype", uint(locator.PublicBlob), "data type code")
	media := encodeCmd.String("media", "", "media type, e.g. text/html (default: raw)")
	baseName := encodeCmd.String("base", "base32z", "text alphabet: base32z, base32 or base64")
	encodeCmd.Parse(args)
	if encodeCmd.NArg() < 1 {
		fmt.Println("Usage: sigil encode [-tag N] [-dtype N] [-media TYPE] [-base NAME] <hex-hash>")
		os.Exit(1)
	}

	hash, err := types.HashFromHex(encodeCmd.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid hash: %v\n", err)
		os.Exit(1)
	}
	dataType, err := locator.DataTypeFromCode(uint8(*dtype))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid data type: %v\n", err)
		os.Exit(1)
	}
	base, err := locator.ParseBase(*baseName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid base: %v\n", err)
		os.Exit(1)
	}
	contentType := locator.Raw
	if *media != "" {
		contentType = locator.MediaType(*media)
	}

	url, err := locator.Encode(locator.Params{
		Hash:        hash,
		TypeTag:     *tag,
		DataType:    dataType,
		ContentType: contentType,
	}, base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding URL: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(url)
}

func cmdPut(conf config.Config, args []string) {
	putCmd := flag.NewFlagSet("put", flag.ExitOnError)
	media := putCmd.String("media", "", "media type, e.g. text/html (default: guessed from extension)")
	putCmd.Parse(args)
	if putCmd.NArg() < 1 {
		fmt.Println("Usage: sigil put [-media TYPE] <file>")
		os.Exit(1)
	}
	filePath := putCmd.Arg(0)

	content, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	contentType := locator.Raw
	switch {
	case *media != "":
		contentType = locator.MediaType(*media)
	default:
		if mt, ok := mediatypes.ForExtension(filepath.Ext(filePath)); ok {
			contentType = locator.MediaType(mt)
		}
	}

	instance := openSigil(conf)
	defer instance.Close()

	url, err := instance.Store.PutURL(content, contentType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error storing content: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(url)
}

func cmdCat(conf config.Config, args []string) {
	catCmd := flag.NewFlagSet("cat", flag.ExitOnError)
	outPath := catCmd.String("o", "", "write content to FILE instead of stdout")
	catCmd.Parse(args)
	if catCmd.NArg() < 1 {
		fmt.Println("Usage: sigil cat [-o FILE] <url>")
		os.Exit(1)
	}

	instance := openSigil(conf)
	defer instance.Close()

	loc, err := locator.FromURL(catCmd.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding URL: %v\n", err)
		os.Exit(1)
	}
	if loc.IsAlias() {
		loc, err = instance.Aliases.Resolve(catCmd.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving alias: %v\n", err)
			os.Exit(1)
		}
	}

	content, err := instance.Store.Get(loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving content: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, content, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		return
	}
	os.Stdout.Write(content)
}

func cmdAlias(conf config.Config, args []string) {
	aliasCmd := flag.NewFlagSet("alias", flag.ExitOnError)
	aliasCmd.Parse(args)
	if aliasCmd.NArg() < 2 {
		fmt.Println("Usage: sigil alias <name> <target-url>")
		os.Exit(1)
	}

	target, err := locator.FromURL(aliasCmd.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding target URL: %v\n", err)
		os.Exit(1)
	}

	instance := openSigil(conf)
	defer instance.Close()

	aliasLoc, err := instance.Aliases.Register(aliasCmd.Arg(0), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering alias: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(aliasLoc)
}

func cmdResolve(conf config.Config, args []string) {
	resolveCmd := flag.NewFlagSet("resolve", flag.ExitOnError)
	resolveCmd.Parse(args)
	if resolveCmd.NArg() < 1 {
		fmt.Println("Usage: sigil resolve <url>")
		os.Exit(1)
	}

	instance := openSigil(conf)
	defer instance.Close()

	target, err := instance.Aliases.Resolve(resolveCmd.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving alias: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(target)
}

func cmdUnalias(conf config.Config, args []string) {
	unaliasCmd := flag.NewFlagSet("unalias", flag.ExitOnError)
	unaliasCmd.Parse(args)
	if unaliasCmd.NArg() < 1 {
		fmt.Println("Usage: sigil unalias <name>")
		os.Exit(1)
	}

	instance := openSigil(conf)
	defer instance.Close()

	if err := instance.Aliases.Unregister(unaliasCmd.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error removing alias: %v\n", err)
		os.Exit(1)
	}
}
