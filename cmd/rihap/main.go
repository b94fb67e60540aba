/*rihap reconstructs the parental origin of every recombinant inbred sample
in a population VCF, filling the gaps between genotyped markers with calls
copied from the two parental strains.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/carbocation/rihap"
)

var (
	app   = kingpin.New("rihap", "reconstruct recombinant inbred haplotypes from a population VCF and two parental VCFs")
	debug = app.Flag("debug", "log every classification, query and merge").Bool()

	expand         = app.Command("expand", "interpolate parental genotypes between consecutive population markers")
	expPopulation  = expand.Flag("population", "population VCF holding the RI samples and both parents").Required().Short('p').String()
	expParent1     = expand.Flag("parent1", "VCF of parent 1").Required().String()
	expParent2     = expand.Flag("parent2", "VCF of parent 2").Required().String()
	expParent1Name = expand.Flag("parent1-name", "sample name of parent 1").Required().String()
	expParent2Name = expand.Flag("parent2-name", "sample name of parent 2").Required().String()
	expDict        = expand.Flag("dict", "reference size table, one 'chr size' row per contig").Required().Short('d').ExistingFile()
	expMap         = expand.Flag("genetic-map", "optional marker table, one 'snpID chr cM_pos' row per marker").Short('m').ExistingFile()
	expMaxBP       = expand.Flag("max-bp", "largest gap in bp that is interpolated").Default(fmt.Sprint(rihap.DefaultMaxBPDistance)).Uint32()
	expMaxCM       = expand.Flag("max-cm", "genetic distance threshold in cM").Default(fmt.Sprint(rihap.DefaultMaxCMDistance)).Float64()
	expOutput      = expand.Flag("output", "output VCF; .gz is BGZF compressed, - is stdout").Default("-").Short('o').String()
	expWindow      = expand.Flag("sort-window", "how far in bp output records may arrive out of order").Default(fmt.Sprint(rihap.DefaultSortWindow)).Uint32()
	expIndexDir    = expand.Flag("index-dir", "directory in which to persist and reuse VCF indexes").String()
	expOrigins     = expand.Flag("origin-matrix", "optional Arrow IPC file receiving the per-interval origin of every sample").String()

	index     = app.Command("index", "index a VCF for region queries")
	idxVCF    = index.Arg("vcf", "VCF to index; - reads stdin").Required().String()
	idxOutput = index.Flag("index", "index file to write").Short('o').String()

	haplotype      = app.Command("haplotype", "classify a parent as REF, ALT or NEITHER over a region")
	hapPopulation  = haplotype.Flag("population", "population VCF holding the RI samples and both parents").Required().Short('p').String()
	hapParent1     = haplotype.Flag("parent1", "VCF of parent 1").Required().String()
	hapParent2     = haplotype.Flag("parent2", "VCF of parent 2").Required().String()
	hapParent1Name = haplotype.Flag("parent1-name", "sample name of parent 1").Required().String()
	hapParent2Name = haplotype.Flag("parent2-name", "sample name of parent 2").Required().String()
	hapDict        = haplotype.Flag("dict", "reference size table, one 'chr size' row per contig").Required().Short('d').ExistingFile()
	hapIndexDir    = haplotype.Flag("index-dir", "directory in which to persist and reuse VCF indexes").String()
	hapParent      = haplotype.Flag("parent", "which parent to classify").Default("parent1").Enum("parent1", "parent2")
	hapRegions     = haplotype.Arg("region", "regions as chr:start-end").Required().Strings()
)

var (
	cyan = color.New(color.FgCyan).SprintFunc()
)

func main() {
	app.UsageTemplate(kingpin.CompactUsageTemplate).Version("1.0.0")
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	switch command {
	case expand.FullCommand():
		RunExpand()
	case index.FullCommand():
		RunIndex()
	case haplotype.FullCommand():
		RunHaplotype()
	}
}

func RunExpand() {
	cfg := rihap.DefaultConfig()
	cfg.PopulationPath = *expPopulation
	cfg.Parent1Path = *expParent1
	cfg.Parent2Path = *expParent2
	cfg.Parent1Name = *expParent1Name
	cfg.Parent2Name = *expParent2Name
	cfg.DictionaryPath = *expDict
	cfg.GeneticMapPath = *expMap
	cfg.MaxBPDistance = *expMaxBP
	cfg.MaxCMDistance = *expMaxCM
	cfg.OutputPath = *expOutput
	cfg.SortWindow = *expWindow
	cfg.IndexDir = *expIndexDir
	cfg.OriginMatrixPath = *expOrigins
	cfg.Debug = *debug

	if err := cfg.Validate(); err != nil {
		kingpin.FatalUsage(err.Error())
	}

	stats, err := rihap.Execute(context.Background(), cfg)
	if err != nil {
		log.Fatalln(err)
	}

	if cfg.OutputPath != "-" {
		fmt.Printf("\nvcf output at: %s\n", cyan(cfg.OutputPath))
	}
	fmt.Fprintf(os.Stderr, "%d marker pairs: %d expanded, %d with conflicts, %d skipped (%d cross-contig, %d bp, %d cM); %d records\n\n",
		stats.Pairs, stats.Expanded, stats.Conflicted, stats.Skipped(), stats.CrossContig, stats.TooFarBP, stats.WithinCM, stats.Records)
}

func RunIndex() {
	indexPath := *idxOutput
	if indexPath == "" {
		if *idxVCF == "-" || strings.HasPrefix(*idxVCF, "gs://") {
			kingpin.FatalUsage("--index is required when indexing stdin or a gs:// object")
		}
		indexPath = *idxVCF + ".rihap.db"
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Prefix = "indexing vcf   "
	s.Writer = os.Stderr
	s.Start()

	store, err := rihap.OpenStore(context.Background(), *idxVCF, indexPath)
	s.Stop()
	if err != nil {
		log.Fatalln(err)
	}
	defer store.Close()

	n, err := store.Len()
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Printf("\nindexed %d variants and %d samples at: %s\n\n", n, len(store.Samples()), cyan(indexPath))
}

func RunHaplotype() {
	cfg := rihap.DefaultConfig()
	cfg.PopulationPath = *hapPopulation
	cfg.Parent1Path = *hapParent1
	cfg.Parent2Path = *hapParent2
	cfg.Parent1Name = *hapParent1Name
	cfg.Parent2Name = *hapParent2Name
	cfg.DictionaryPath = *hapDict
	cfg.IndexDir = *hapIndexDir
	cfg.Debug = *debug

	origin := rihap.OriginParent1
	if *hapParent == "parent2" {
		origin = rihap.OriginParent2
	}

	regions := make([]rihap.Location, 0, len(*hapRegions))
	for _, r := range *hapRegions {
		loc, err := rihap.ParseRegion(r)
		if err != nil {
			kingpin.FatalUsage(err.Error())
		}
		regions = append(regions, loc)
	}

	engine, closeStores, err := rihap.OpenEngine(context.Background(), cfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer closeStores()

	for _, loc := range regions {
		h, err := engine.ParentalHaplotype(origin, loc.Contig, loc.Start, loc.End)
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%s\t%s\t%s\n", loc, engine.Parents.Name(origin), cyan(h))
	}
}
