package types

// Delete policies for vehicles with dependent records. The original web
// workflow shipped both behaviors in different revisions; the policy is an
// explicit configuration choice here rather than a silent default.
const (
	// DeleteCascade removes referencing expenses and sales together with
	// the vehicle and reports what was removed.
	DeleteCascade = "cascade"
	// DeleteRestrict refuses to delete a vehicle while any expense or sale
	// references it.
	DeleteRestrict = "restrict"
)

// Supported blob storage drivers for bill-of-sale documents.
const (
	BlobDriverFS     = "fs"
	BlobDriverS3     = "s3"
	BlobDriverMemory = "memory"
)

// Config holds backend parameters for Ledger.Attach.
type Config struct {
	// DataDir is the directory holding the CSV collections and the SQLite
	// query engine file. Created on Attach if missing.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DeletePolicy selects cascade or restrict vehicle deletion.
	// Empty means DeleteCascade.
	DeletePolicy string `json:"delete_policy" yaml:"delete_policy"`

	// Blob configures bill-of-sale document storage.
	Blob BlobConfig `json:"blob" yaml:"blob"`
}

// BlobConfig selects and parameterizes the blob storage driver.
type BlobConfig struct {
	Driver string   `json:"driver" yaml:"driver"` // fs|s3|memory, empty means fs
	FSRoot string   `json:"fs_root" yaml:"fs_root"`
	S3     S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 / MinIO connection parameters.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	PathStyle bool   `json:"path_style" yaml:"path_style"`
}

var knownDeletePolicies = map[string]bool{
	"":             true, // defaults to cascade
	DeleteCascade:  true,
	DeleteRestrict: true,
}

var knownBlobDrivers = map[string]bool{
	"":               true, // defaults to fs
	BlobDriverFS:     true,
	BlobDriverS3:     true,
	BlobDriverMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if !knownDeletePolicies[c.DeletePolicy] {
		return ErrDeletePolicyUnknown
	}
	if !knownBlobDrivers[c.Blob.Driver] {
		return ErrBlobDriverUnknown
	}
	return nil
}

// EffectiveDeletePolicy resolves the empty policy to the default.
func (c Config) EffectiveDeletePolicy() string {
	if c.DeletePolicy == "" {
		return DeleteCascade
	}
	return c.DeletePolicy
}
