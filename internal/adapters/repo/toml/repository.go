package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/bnema/gigachat-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ProfilesPathKey    = "profiles.path"
	profilesFileMode   = 0o600
	profilesDirMode    = 0o700
	profilesConfigDir  = ".gigachat"
	profilesConfigFile = "profiles.toml"
	tempFilePattern    = ".profiles-*.toml.tmp"
)

// Repository stores profiles in a single TOML file. A missing file, or a
// file without a "default" entry, still yields the built-in default profile.
type Repository struct {
	profilesPath string
	mu           *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ProfileRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(ProfilesPathKey, filepath.Join(homeDir, profilesConfigDir, profilesConfigFile))

	profilesPath := cfg.GetString(ProfilesPathKey)
	if profilesPath == "" {
		return nil, errors.New("profiles path is empty")
	}
	profilesPath, err = normalizeProfilesPath(profilesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{profilesPath: profilesPath, mu: lockForPath(profilesPath)}, nil
}

func (r *Repository) Path() string {
	return r.profilesPath
}

func (r *Repository) Save(ctx context.Context, profile domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("validate profile %q: %w", profile.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(profile)
	updated := false
	for i := range file.Profiles {
		if file.Profiles[i].ID == encoded.ID {
			file.Profiles[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Profiles = append(file.Profiles, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Profile{}, err
	}

	for _, entry := range file.Profiles {
		if entry.ID == string(id) {
			return fromSchema(entry)
		}
	}

	if id == domain.DefaultProfileID {
		return domain.DefaultProfile(), nil
	}

	return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
}

func (r *Repository) List(ctx context.Context) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(file.Profiles)+1)
	hasDefault := false
	for _, entry := range file.Profiles {
		profile, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		if profile.ID == domain.DefaultProfileID {
			hasDefault = true
		}
		profiles = append(profiles, profile)
	}
	if !hasDefault {
		profiles = append([]domain.Profile{domain.DefaultProfile()}, profiles...)
	}

	return profiles, nil
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.profilesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read profiles file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode profiles file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizeProfilesPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve profiles path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.profilesPath), profilesDirMode); err != nil {
		return fmt.Errorf("create profiles directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode profiles file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.profilesPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp profiles file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp profiles file: %w", err)
	}
	if err := tempFile.Chmod(profilesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp profiles file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp profiles file: %w", err)
	}
	if err := os.Rename(tempName, r.profilesPath); err != nil {
		return fmt.Errorf("replace profiles file: %w", err)
	}

	cleanup = false
	return nil
}

func toSchema(profile domain.Profile) profileSchema {
	stripChars := profile.StripChars
	generation := profile.Generation
	temperature := generation.Temperature
	topP := generation.TopP
	repetitionPenalty := generation.RepetitionPenalty

	encoded := profileSchema{
		ID:              string(profile.ID),
		Name:            profile.Name,
		APIBaseURL:      profile.APIBaseURL,
		OAuthBaseURL:    profile.OAuthBaseURL,
		Scope:           profile.Scope,
		ClientSecretRef: profile.ClientSecretRef,
		SystemPrompt:    profile.SystemPrompt,
		StripChars:      &stripChars,
		Generation: generationSchema{
			Model:             generation.Model,
			Temperature:       &temperature,
			TopP:              &topP,
			RepetitionPenalty: &repetitionPenalty,
			MaxTokens:         generation.MaxTokens,
			N:                 generation.N,
			Stream:            generation.Stream,
		},
	}
	if generation.UpdateInterval > 0 {
		encoded.Generation.UpdateInterval = generation.UpdateInterval.String()
	}

	return encoded
}

func fromSchema(entry profileSchema) (domain.Profile, error) {
	profile := domain.DefaultProfile()
	profile.ID = domain.ProfileID(entry.ID)
	profile.Name = entry.Name
	profile.ClientSecretRef = domain.ClientSecretRef(profile.ID)
	profile.SystemPrompt = entry.SystemPrompt

	if entry.APIBaseURL != "" {
		profile.APIBaseURL = entry.APIBaseURL
	}
	if entry.OAuthBaseURL != "" {
		profile.OAuthBaseURL = entry.OAuthBaseURL
	}
	if entry.Scope != "" {
		profile.Scope = entry.Scope
	}
	if entry.ClientSecretRef != "" {
		profile.ClientSecretRef = entry.ClientSecretRef
	}
	if entry.StripChars != nil {
		profile.StripChars = *entry.StripChars
	}

	generation := &profile.Generation
	if entry.Generation.Model != "" {
		generation.Model = entry.Generation.Model
	}
	if entry.Generation.Temperature != nil {
		generation.Temperature = *entry.Generation.Temperature
	}
	if entry.Generation.TopP != nil {
		generation.TopP = *entry.Generation.TopP
	}
	if entry.Generation.RepetitionPenalty != nil {
		generation.RepetitionPenalty = *entry.Generation.RepetitionPenalty
	}
	if entry.Generation.MaxTokens != 0 {
		generation.MaxTokens = entry.Generation.MaxTokens
	}
	if entry.Generation.N != 0 {
		generation.N = entry.Generation.N
	}
	generation.Stream = entry.Generation.Stream
	if entry.Generation.UpdateInterval != "" {
		interval, err := time.ParseDuration(entry.Generation.UpdateInterval)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("decode profile %q: update_interval: %w", entry.ID, err)
		}
		generation.UpdateInterval = interval
	}

	return profile, nil
}
