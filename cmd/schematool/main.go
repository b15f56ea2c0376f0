package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/mariselv/helping-hands/modules/schema/infrastructure/persistence"
	"github.com/mariselv/helping-hands/modules/schema/services"
)

// schematool moves category schemas between a database and YAML documents,
// for seeding environments and for reviewing schema changes in diffs.
func main() {
	if len(os.Args) < 2 {
		fatalf("usage: schematool <export|import> [args]")
	}

	switch os.Args[1] {
	case "export":
		exportSchema(os.Args[2:])
	case "import":
		importSchema(os.Args[2:])
	default:
		fatalf("unknown subcommand: %s", os.Args[1])
	}
}

type schemaDoc struct {
	Category struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description,omitempty"`
		Icon        string `yaml:"icon,omitempty"`
	} `yaml:"category"`
	Fields []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Rule        string   `yaml:"rule,omitempty"`
}

func exportSchema(args []string) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var url, categoryID string
	fs.StringVar(&url, "url", "", "postgres connection string")
	fs.StringVar(&categoryID, "category-id", "", "category to export")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if url == "" {
		fatalf("missing --url")
	}
	if categoryID == "" {
		fatalf("missing --category-id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc, pool := connectSchemaService(ctx, url)
	defer pool.Close()

	schema, err := svc.GetSchema(ctx, categoryID)
	if err != nil {
		fatal(err)
	}

	var doc schemaDoc
	doc.Category.Name = schema.Category.Name
	doc.Category.Description = schema.Category.Description
	doc.Category.Icon = schema.Category.Icon
	for _, f := range schema.Fields {
		doc.Fields = append(doc.Fields, fieldDoc{
			Name:        f.Name,
			Type:        f.Type,
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
			Rule:        f.Rule,
		})
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		fatal(err)
	}
	if err := enc.Close(); err != nil {
		fatal(err)
	}
}

func importSchema(args []string) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var url, file string
	fs.StringVar(&url, "url", "", "postgres connection string")
	fs.StringVar(&file, "file", "", "schema YAML document")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if url == "" {
		fatalf("missing --url")
	}
	if file == "" {
		fatalf("missing --file")
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		fatal(err)
	}
	var doc schemaDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		fatal(err)
	}
	if doc.Category.Name == "" {
		fatalf("document has no category name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, pool := connectSchemaService(ctx, url)
	defer pool.Close()

	category, err := svc.CreateCategory(ctx, services.CreateCategoryRequest{
		Name:        doc.Category.Name,
		Description: doc.Category.Description,
		Icon:        doc.Category.Icon,
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("created category %s (%s)\n", category.Name, category.ID)

	for _, f := range doc.Fields {
		created, err := svc.AddField(ctx, services.AddFieldRequest{
			CategoryID:  category.ID,
			Name:        f.Name,
			Type:        f.Type,
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
			Rule:        f.Rule,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Printf("created field %s (%s)\n", created.Name, created.ID)
	}
}

func connectSchemaService(ctx context.Context, url string) (services.SchemaService, *pgxpool.Pool) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		fatal(err)
	}
	return services.NewSchemaService(persistence.NewSchemaPGStore(pool)), pool
}

func fatal(err error) {
	if err == nil {
		os.Exit(1)
	}
	fatalf("%v", err)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
