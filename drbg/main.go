package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/bwesterb/go-drbg"

	"github.com/urfave/cli"
)

func cmdAlgs(c *cli.Context) error {
	for _, name := range drbg.ListNames() {
		params := drbg.ParamsFromName(name)
		fmt.Printf("%-22s %-6s strength %d\n", name, params.Mech,
			params.Strength)
	}

	return nil
}

func cmdGen(c *cli.Context) error {
	params := drbg.ParamsFromName(c.String("alg"))
	if params == nil {
		return cli.NewExitError(
			fmt.Sprintf("Unknown DRBG %s; see algs", c.String("alg")), 1)
	}

	var es drbg.EntropySource
	if path := c.String("seed-file"); path != "" {
		sf, err := drbg.OpenSeedFile(path, params.EntropyBits())
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		defer sf.Close()
		es = sf
	} else {
		es = drbg.NewSystemEntropySource(params.EntropyBits())
	}

	rnd, err := drbg.NewRandomFromName(c.String("alg"), es,
		[]byte(c.String("pers")), c.Bool("prediction-resistance"))
	if err != nil {
		return cli.NewExitError(err.Error(), 3)
	}

	buf := make([]byte, c.Int("bytes"))
	if err = rnd.Generate(buf, nil); err != nil {
		return cli.NewExitError(err.Error(), 4)
	}

	if c.Bool("hex") {
		fmt.Println(hex.EncodeToString(buf))
		return nil
	}
	os.Stdout.Write(buf)
	return nil
}

func cmdSeedFile(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.NewExitError("Missing path", 1)
	}

	size := c.Int("size")
	pool, err := drbg.NewSystemEntropySource(8 * size).GetEntropy()
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	if err := drbg.CreateSeedFile(path, pool); err != nil {
		return cli.NewExitError(err.Error(), 3)
	}

	fmt.Printf("Created %s with %d bytes of entropy\n", path, size)
	return nil
}

func cmdSelfTest(c *cli.Context) error {
	if err := drbg.SelfTest(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println("ok")
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "drbg"
	app.Usage = "NIST SP800-90A deterministic random bit generators"

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "log what the generators are doing",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("verbose") {
			drbg.EnableLogging()
		}
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:   "algs",
			Usage:  "List DRBG instances",
			Action: cmdAlgs,
		},
		{
			Name:   "gen",
			Usage:  "Generate random bytes",
			Action: cmdGen,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "alg, a",
					Value: "HMAC-SHA-256",
					Usage: "DRBG instance to use",
				},
				cli.IntFlag{
					Name:  "bytes, n",
					Value: 32,
					Usage: "number of bytes to generate",
				},
				cli.BoolFlag{
					Name:  "hex",
					Usage: "write hex instead of raw bytes",
				},
				cli.StringFlag{
					Name:  "seed-file, s",
					Usage: "take entropy from this seed file instead of the OS",
				},
				cli.StringFlag{
					Name:  "pers, p",
					Usage: "personalization string",
				},
				cli.BoolFlag{
					Name:  "prediction-resistance",
					Usage: "reseed before every request",
				},
			},
		},
		{
			Name:      "seedfile",
			Usage:     "Create a seed file from OS entropy",
			ArgsUsage: "PATH",
			Action:    cmdSeedFile,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "size",
					Value: 4096,
					Usage: "size of the entropy pool in bytes",
				},
			},
		},
		{
			Name:   "selftest",
			Usage:  "Run known-answer tests",
			Action: cmdSelfTest,
		},
	}

	app.Run(os.Args)
}
