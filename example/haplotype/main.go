package main

import (
	"context"
	"flag"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/carbocation/rihap"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := rihap.DefaultConfig()
	flag.StringVar(&cfg.PopulationPath, "population", "", "Population VCF (or gs:// URL)")
	flag.StringVar(&cfg.Parent1Path, "parent1", "", "VCF holding parent 1")
	flag.StringVar(&cfg.Parent2Path, "parent2", "", "VCF holding parent 2")
	flag.StringVar(&cfg.Parent1Name, "parent1-name", "", "Sample name of parent 1")
	flag.StringVar(&cfg.Parent2Name, "parent2-name", "", "Sample name of parent 2")
	flag.StringVar(&cfg.DictionaryPath, "dict", "", "Reference dictionary (chr size rows)")
	flag.StringVar(&cfg.IndexDir, "index-dir", "", "Directory to persist and reuse indexes in")
	region := flag.String("region", "", "Region to classify, as chr:start-end")
	flag.Parse()

	cfg.PopulationPath = expandHome(cfg.PopulationPath)
	cfg.Parent1Path = expandHome(cfg.Parent1Path)
	cfg.Parent2Path = expandHome(cfg.Parent2Path)
	cfg.DictionaryPath = expandHome(cfg.DictionaryPath)
	cfg.IndexDir = expandHome(cfg.IndexDir)

	loc, err := rihap.ParseRegion(*region)
	if err != nil {
		log.Fatalln(err)
	}

	engine, closeStores, err := rihap.OpenEngine(context.Background(), cfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer closeStores()

	log.Println("Population samples:", len(engine.Population.Samples()))

	for _, origin := range []rihap.Origin{rihap.OriginParent1, rihap.OriginParent2} {
		h, err := engine.ParentalHaplotype(origin, loc.Contig, loc.Start, loc.End)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%s\t%s\t%s\n", loc, engine.Parents.Name(origin), h)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
