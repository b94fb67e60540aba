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
	path := flag.String("vcf", "", "Filename (or gs:// URL) of the VCF to index")
	idxPath := flag.String("index", "", "Filename of the SQLite index to create or reuse. Defaults to the VCF name with a .rihap.db suffix.")
	flag.Parse()

	*path = expandHome(*path)

	if *idxPath == "" && !strings.HasPrefix(*path, "gs://") {
		*idxPath = *path + ".rihap.db"
	}
	*idxPath = expandHome(*idxPath)

	log.Println("Opening vcf:", *path)
	store, err := rihap.OpenStore(context.Background(), *path, *idxPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer store.Close()

	meta := *store.Metadata
	meta.FirstThousandBytes = nil
	log.Printf("Index Metadata: %+v\n", meta)
	log.Println("SQLite driver:", rihap.WhichSQLiteDriver())

	n, err := store.Len()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Saw indexes for", n, "variants")

	samples := store.Samples()
	for i, sample := range samples {
		if i > 10 {
			break
		}
		fmt.Println(i, sample)
	}
	log.Println("Iterated over", len(samples), "samples")

	walker := store.Walk()
	for i := 1; ; i++ {
		v := walker.Read()
		if v == nil {
			break
		}

		if i%30 == 1 {
			fmt.Printf("%d) %s\n", i, v)
		}

		if i > 1 {
			continue
		}

		for j, sample := range samples {
			if j > 10 {
				break
			}
			g, _ := v.Genotype(sample)
			log.Printf("\tGenotype %d) %s %s\n", j, sample, g)
		}
	}

	if walker.Error() != nil {
		log.Println("Walker error:", walker.Error())
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
