package rihap

import (
	"context"
	"os"

	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"

	"github.com/carbocation/rihap/arrow"
)

const originChunkSize = 1024

// OpenEngine loads the tables and stores named by cfg and returns an Engine
// over them. Closing the engine's stores is left to closeStores.
func OpenEngine(ctx context.Context, cfg Config) (engine *Engine, closeStores func(), err error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.IndexDir != "" {
		if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
			return nil, nil, pfx.Err(err)
		}
	}

	dict, err := OpenDictionary(cfg.DictionaryPath)
	if err != nil {
		return nil, nil, err
	}

	var gmap GeneticMap
	if cfg.GeneticMapPath != "" {
		if gmap, err = OpenGeneticMap(cfg.GeneticMapPath); err != nil {
			return nil, nil, err
		}
		log.Infof("Loaded %d genetic map positions", len(gmap))
	}

	stores := make([]*Store, 0, 3)
	closeStores = func() {
		for _, s := range stores {
			s.Close()
		}
	}
	for _, path := range []string{cfg.PopulationPath, cfg.Parent1Path, cfg.Parent2Path} {
		s, err := OpenStore(ctx, path, cfg.indexPath(path))
		if err != nil {
			closeStores()
			return nil, nil, err
		}
		stores = append(stores, s)
	}

	parents := Parents{Parent1: cfg.Parent1Name, Parent2: cfg.Parent2Name}
	engine, err = NewEngine(stores[0], stores[1], stores[2], parents, dict, NewGate(cfg.MaxBPDistance, cfg.MaxCMDistance, gmap))
	if err != nil {
		closeStores()
		return nil, nil, err
	}

	return engine, closeStores, nil
}

// Execute runs a full reconstruction described by cfg.
func Execute(ctx context.Context, cfg Config) (stats RunStats, err error) {
	engine, closeStores, err := OpenEngine(ctx, cfg)
	if err != nil {
		return stats, err
	}
	defer closeStores()

	samples := engine.Population.Samples()
	if cfg.OriginMatrixPath != "" {
		var ow *arrow.OriginWriter
		ow, err = arrow.NewOriginWriter(cfg.OriginMatrixPath, samples, originChunkSize)
		if err != nil {
			return stats, pfx.Err(err)
		}
		defer func() {
			if cerr := ow.Close(); cerr != nil && err == nil {
				err = pfx.Err(cerr)
			}
		}()
		engine.SetOriginRecorder(originMatrixRecorder(ow, samples))
	}

	hdr, err := ReadHeader(ctx, cfg.PopulationPath)
	if err != nil {
		return stats, err
	}

	out, err := CreateVCF(cfg.OutputPath, hdr)
	if err != nil {
		return stats, err
	}
	sink := NewSortingWriter(out, engine.Dict, cfg.SortWindow)

	stats, err = engine.Run(sink)
	if err != nil {
		sink.Close()
		return stats, err
	}

	if err := sink.Close(); err != nil {
		return stats, err
	}

	return stats, nil
}

// originMatrixRecorder writes each interval's group assignment as one row of
// the origin matrix.
func originMatrixRecorder(ow *arrow.OriginWriter, samples []string) OriginRecorder {
	row := make([]uint8, len(samples))
	return OriginRecorderFunc(func(iv *Interval) error {
		for i, sample := range samples {
			row[i] = uint8(iv.Groups[sample])
		}
		return ow.Write(iv.First.Contig, int64(iv.First.Start), int64(iv.Second.End), row)
	})
}
