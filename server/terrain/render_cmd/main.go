// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"image/png"
	"log"
	"os"
	"runtime/pprof"

	"github.com/playaetharia/aetharia/server/terrain"
)

func main() {
	var (
		cpuProfile     string
		seed           int64
		x0, y0, x1, y1 int
		out            string
	)

	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.Int64Var(&seed, "seed", terrain.DefaultSeed, "world seed")
	flag.IntVar(&x0, "x0", -4, "first chunk x")
	flag.IntVar(&y0, "y0", -2, "first chunk y")
	flag.IntVar(&x1, "x1", 4, "last chunk x")
	flag.IntVar(&y1, "y1", 2, "last chunk y")
	flag.StringVar(&out, "out", "out.png", "output png path")
	flag.Parse()

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	img := terrain.Render(terrain.New(seed), x0, y0, x1, y1)

	file, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	if err = png.Encode(file, img); err != nil {
		log.Fatal(err)
	}
}
