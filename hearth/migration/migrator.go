package migration

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ellavondegurechaff/hearth/hearth/database/models"
)

// Migrator imports the legacy Mongo-backed bot's data into the postgres
// schema. It reads either raw mongodump .bson files from a data directory or
// a live Mongo database.
type Migrator struct {
	pgDB             *bun.DB
	dataDir          string
	membersPath      string
	achievementsPath string
	batchSize        int
	// Statistics tracking
	stats MigrationStats
	// Optional direct Mongo access
	mongoDB *mongo.Database
	// Mongo collection names (overrideable)
	collNames map[string]string
}

func NewMigrator(pgDB *bun.DB, dataDir string) *Migrator {
	return &Migrator{
		pgDB:             pgDB,
		dataDir:          dataDir,
		membersPath:      filepath.Join(dataDir, "members.bson"),
		achievementsPath: filepath.Join(dataDir, "userachievements.bson"),
		batchSize:        1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
		collNames: map[string]string{
			"members":          "members",
			"userachievements": "userachievements",
		},
	}
}

// SetBatchSize overrides the default batch size for inserts (useful for poolers/timeouts)
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// UseMongo enables direct-from-Mongo migration mode
func (m *Migrator) UseMongo(client *mongo.Client, dbName string) {
	if client != nil && dbName != "" {
		m.mongoDB = client.Database(dbName)
	}
}

// SetMongoCollectionName overrides the collection name for a given kind
// (e.g., "members", "userachievements")
func (m *Migrator) SetMongoCollectionName(kind, name string) {
	if m.collNames == nil {
		m.collNames = map[string]string{}
	}
	if kind != "" && name != "" {
		m.collNames[kind] = name
	}
}

func (m *Migrator) getColl(kind, defaultName string) *mongo.Collection {
	if m.mongoDB == nil {
		return nil
	}
	name := defaultName
	if v, ok := m.collNames[kind]; ok && v != "" {
		name = v
	}
	return m.mongoDB.Collection(name)
}

// MigrateAll imports every legacy dataset from BSON dump files. Stats rows
// go first so achievement records always join onto an existing member.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	logProgress("Starting legacy BSON migration")
	logProgress(fmt.Sprintf("Data directory: %s", m.dataDir))

	if m.stats.Tables == nil {
		m.stats.Tables = make(map[string]*TableStats)
	}
	m.stats.StartTime = time.Now()

	migrationSteps := []struct {
		name    string
		migrate func(context.Context) error
	}{
		{"user_stats", m.MigrateMembers},
		{"user_achievements", m.MigrateAchievements},
	}

	for _, step := range migrationSteps {
		logProgress(fmt.Sprintf("Starting migration step: %s", step.name))

		if err := step.migrate(ctx); err != nil {
			return fmt.Errorf("migration failed at step %s: %w", step.name, err)
		}

		logProgress(fmt.Sprintf("Completed migration step: %s", step.name))
	}

	m.stats.EndTime = time.Now()
	if err := m.generateMigrationReport(); err != nil {
		slog.Error("Failed to generate migration report", "error", err)
	}

	logProgress("Migration completed successfully!")
	m.logFinalStats()
	return nil
}

// MigrateAllFromMongo migrates data directly from a live MongoDB database
func (m *Migrator) MigrateAllFromMongo(ctx context.Context) error {
	if m.mongoDB == nil {
		return fmt.Errorf("mongoDB not configured; call UseMongo first")
	}

	logProgress("Starting direct MongoDB migration")

	if m.stats.Tables == nil {
		m.stats.Tables = make(map[string]*TableStats)
	}
	m.stats.StartTime = time.Now()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"user_stats_mongo", m.MigrateMembersFromMongo},
		{"user_achievements_mongo", m.MigrateAchievementsFromMongo},
	}

	for _, s := range steps {
		logProgress(fmt.Sprintf("Starting migration step: %s", s.name))
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("migration failed at step %s: %w", s.name, err)
		}
		logProgress(fmt.Sprintf("Completed migration step: %s", s.name))
	}

	m.stats.EndTime = time.Now()
	if err := m.generateMigrationReport(); err != nil {
		slog.Error("Failed to generate migration report", "error", err)
	}

	logProgress("Direct Mongo migration completed successfully!")
	m.logFinalStats()
	return nil
}

// MigrateMembers imports member documents from a BSON dump file.
func (m *Migrator) MigrateMembers(ctx context.Context) error {
	m.initTableStats("user_stats")

	var members []MongoMember
	err := m.processBSONFile(ctx, m.membersPath, func(doc []byte) error {
		var mm MongoMember
		if err := bson.Unmarshal(doc, &mm); err != nil {
			return fmt.Errorf("failed to decode member document: %w", err)
		}
		members = append(members, mm)
		return nil
	})
	if err != nil {
		return err
	}

	logProgress(fmt.Sprintf("Loaded members from BSON file: %d", len(members)))
	return m.processMembers(ctx, members)
}

// MigrateMembersFromMongo imports member documents from live Mongo.
func (m *Migrator) MigrateMembersFromMongo(ctx context.Context) error {
	if m.mongoDB == nil {
		return nil
	}
	m.initTableStats("user_stats")

	col := m.getColl("members", "members")
	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to query members: %w", err)
	}
	defer cur.Close(ctx)

	var members []MongoMember
	for cur.Next(ctx) {
		var mm MongoMember
		if err := cur.Decode(&mm); err == nil {
			members = append(members, mm)
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return m.processMembers(ctx, members)
}

func (m *Migrator) processMembers(ctx context.Context, members []MongoMember) error {
	// Dedupe by (discord_id, guild_id), keeping the latest occurrence
	memberMap := make(map[string]*models.UserStats)
	duplicateCount := 0

	for _, mm := range members {
		m.recordProcessed("user_stats")

		if mm.DiscordID == "" || mm.GuildID == "" {
			m.recordSkipped("user_stats", "missing discord_id or guild_id", mm)
			continue
		}

		key := mm.DiscordID + ":" + mm.GuildID
		if _, exists := memberMap[key]; exists {
			duplicateCount++
			logProgress(fmt.Sprintf("Duplicate member found: %s (keeping latest record)", key))
		}
		memberMap[key] = m.convertMember(mm)
	}

	var stats []*models.UserStats
	for _, s := range memberMap {
		stats = append(stats, s)
	}

	totalStats := len(stats)
	for i := 0; i < totalStats; i += m.batchSize {
		end := i + m.batchSize
		if end > totalStats {
			end = totalStats
		}
		batch := stats[i:end]

		slog.Info("Inserting batch of member stats",
			"batchSize", len(batch),
			"progress", fmt.Sprintf("%d/%d", end, totalStats))

		if err := m.batchInsertStats(ctx, batch); err != nil {
			slog.Error("Failed to insert stats batch",
				"error", err,
				"batchSize", len(batch))
			return err
		}
		for range batch {
			m.recordSuccessful("user_stats")
		}
	}

	logProgress(fmt.Sprintf("Member migration completed: %d total input records, %d unique members imported, %d duplicates handled",
		len(members), len(stats), duplicateCount))
	return nil
}

// MigrateAchievements imports achievement documents from a BSON dump file.
func (m *Migrator) MigrateAchievements(ctx context.Context) error {
	m.initTableStats("user_achievements")

	var docs []MongoMemberAchievements
	err := m.processBSONFile(ctx, m.achievementsPath, func(doc []byte) error {
		var ma MongoMemberAchievements
		if err := bson.Unmarshal(doc, &ma); err != nil {
			return fmt.Errorf("failed to decode achievements document: %w", err)
		}
		docs = append(docs, ma)
		return nil
	})
	if err != nil {
		return err
	}

	logProgress(fmt.Sprintf("Loaded achievement documents from BSON file: %d", len(docs)))
	return m.processAchievements(ctx, docs)
}

// MigrateAchievementsFromMongo imports achievement documents from live Mongo.
func (m *Migrator) MigrateAchievementsFromMongo(ctx context.Context) error {
	if m.mongoDB == nil {
		return nil
	}
	m.initTableStats("user_achievements")

	col := m.getColl("userachievements", "userachievements")
	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		logProgress("userachievements collection not found; skipping")
		return nil
	}
	defer cur.Close(ctx)

	var docs []MongoMemberAchievements
	for cur.Next(ctx) {
		var ma MongoMemberAchievements
		if err := cur.Decode(&ma); err == nil {
			docs = append(docs, ma)
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return m.processAchievements(ctx, docs)
}

func (m *Migrator) processAchievements(ctx context.Context, docs []MongoMemberAchievements) error {
	recordMap := make(map[string]*models.UserAchievementRecord)
	duplicateCount := 0

	for _, ma := range docs {
		m.recordProcessed("user_achievements")

		if ma.UserID == "" || ma.GuildID == "" {
			m.recordSkipped("user_achievements", "missing userid or guildid", ma)
			continue
		}

		key := ma.UserID + ":" + ma.GuildID
		if _, exists := recordMap[key]; exists {
			duplicateCount++
			logProgress(fmt.Sprintf("Duplicate achievement record found: %s (keeping latest)", key))
		}
		recordMap[key] = m.convertAchievements(ma)
	}

	var records []*models.UserAchievementRecord
	for _, r := range recordMap {
		records = append(records, r)
	}

	totalRecords := len(records)
	for i := 0; i < totalRecords; i += m.batchSize {
		end := i + m.batchSize
		if end > totalRecords {
			end = totalRecords
		}
		batch := records[i:end]

		slog.Info("Inserting batch of achievement records",
			"batchSize", len(batch),
			"progress", fmt.Sprintf("%d/%d", end, totalRecords))

		if err := m.batchInsertRecords(ctx, batch); err != nil {
			slog.Error("Failed to insert achievement batch",
				"error", err,
				"batchSize", len(batch))
			return err
		}
		for range batch {
			m.recordSuccessful("user_achievements")
		}
	}

	logProgress(fmt.Sprintf("Achievement migration completed: %d total input records, %d unique records imported, %d duplicates handled",
		len(docs), len(records), duplicateCount))
	return nil
}

func (m *Migrator) batchInsertStats(ctx context.Context, stats []*models.UserStats) error {
	startTime := time.Now()
	if err := m.tryInsertStats(ctx, stats); err != nil {
		return err
	}
	logProgress(fmt.Sprintf("Batch insert of member stats completed: %d (took %s)", len(stats), time.Since(startTime)))
	return nil
}

func (m *Migrator) tryInsertStats(ctx context.Context, stats []*models.UserStats) error {
	_, err := m.pgDB.NewInsert().
		Model(&stats).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("level = EXCLUDED.level").
		Set("xp = EXCLUDED.xp").
		Set("embers = EXCLUDED.embers").
		Set("prestige_level = EXCLUDED.prestige_level").
		Set("message_stats = EXCLUDED.message_stats").
		Set("voice_stats = EXCLUDED.voice_stats").
		Set("reaction_stats = EXCLUDED.reaction_stats").
		Set("streaks = EXCLUDED.streaks").
		Set("profile = EXCLUDED.profile").
		Set("daily_activity = EXCLUDED.daily_activity").
		Set("hour_counts = EXCLUDED.hour_counts").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		if isTimeoutErr(err) && len(stats) > 1 {
			mid := len(stats) / 2
			logProgress(fmt.Sprintf("Stats batch insert timeout. Splitting into %d and %d", mid, len(stats)-mid))
			if err := m.tryInsertStats(ctx, stats[:mid]); err != nil {
				return err
			}
			return m.tryInsertStats(ctx, stats[mid:])
		}
		return fmt.Errorf("failed to insert member stats batch: %w", err)
	}
	return nil
}

func (m *Migrator) batchInsertRecords(ctx context.Context, records []*models.UserAchievementRecord) error {
	startTime := time.Now()
	if err := m.tryInsertRecords(ctx, records); err != nil {
		return err
	}
	logProgress(fmt.Sprintf("Batch insert of achievement records completed: %d (took %s)", len(records), time.Since(startTime)))
	return nil
}

func (m *Migrator) tryInsertRecords(ctx context.Context, records []*models.UserAchievementRecord) error {
	_, err := m.pgDB.NewInsert().
		Model(&records).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("unlocked = EXCLUDED.unlocked").
		Set("progress = EXCLUDED.progress").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		if isTimeoutErr(err) && len(records) > 1 {
			mid := len(records) / 2
			logProgress(fmt.Sprintf("Records batch insert timeout. Splitting into %d and %d", mid, len(records)-mid))
			if err := m.tryInsertRecords(ctx, records[:mid]); err != nil {
				return err
			}
			return m.tryInsertRecords(ctx, records[mid:])
		}
		return fmt.Errorf("failed to insert achievement records batch: %w", err)
	}
	return nil
}

func isTimeoutErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "i/o timeout") || strings.Contains(s, "timeout") || strings.Contains(s, "context deadline")
}

// logProgress logs progress messages following existing pattern
func logProgress(message string) {
	slog.Info(message, "service", "Hearth Migration")
}

// processBSONFile streams a mongodump .bson file document by document. Each
// document starts with an int32 little-endian length that includes itself.
func (m *Migrator) processBSONFile(ctx context.Context, filePath string, processDoc func([]byte) error) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logProgress(fmt.Sprintf("BSON file not found, skipping: %s", filePath))
		return nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open BSON file %s: %w", filePath, err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}
	logProgress(fmt.Sprintf("Processing BSON file: %s (size: %d bytes)", filePath, fileInfo.Size()))

	reader := bufio.NewReader(file)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lengthBytes := make([]byte, 4)
		_, err := io.ReadFull(reader, lengthBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read document length: %w", err)
		}

		length := int32(binary.LittleEndian.Uint32(lengthBytes))
		if length <= 4 {
			return fmt.Errorf("invalid document length: %d", length)
		}

		docBytes := make([]byte, length-4)
		if _, err := io.ReadFull(reader, docBytes); err != nil {
			return fmt.Errorf("failed to read document bytes: %w", err)
		}

		fullDocBytes := append(lengthBytes, docBytes...)
		if err := processDoc(fullDocBytes); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) generateMigrationReport() error {
	timestamp := time.Now().Format("20060102_150405")
	reportFile := filepath.Join(".", fmt.Sprintf("migration_report_%s.json", timestamp))

	file, err := os.Create(reportFile)
	if err != nil {
		return fmt.Errorf("failed to create migration report file: %w", err)
	}
	defer file.Close()

	m.stats.TotalProcessed = 0
	m.stats.TotalSkipped = 0
	m.stats.TotalErrors = 0

	for _, tableStats := range m.stats.Tables {
		m.stats.TotalProcessed += tableStats.Processed
		m.stats.TotalSkipped += tableStats.Skipped
		m.stats.TotalErrors += tableStats.Errors
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m.stats); err != nil {
		return fmt.Errorf("failed to write migration report: %w", err)
	}

	slog.Info("Migration report generated", "file", reportFile)
	return nil
}

// logFinalStats logs a summary of migration statistics
func (m *Migrator) logFinalStats() {
	duration := m.stats.EndTime.Sub(m.stats.StartTime)

	slog.Info("Migration completed",
		"duration", duration,
		"total_processed", m.stats.TotalProcessed,
		"total_skipped", m.stats.TotalSkipped,
		"total_errors", m.stats.TotalErrors)

	for tableName, stats := range m.stats.Tables {
		slog.Info("Table migration stats",
			"table", tableName,
			"processed", stats.Processed,
			"successful", stats.Successful,
			"skipped", stats.Skipped,
			"errors", stats.Errors)
	}
}

// Helper methods for statistics tracking

func (m *Migrator) initTableStats(tableName string) {
	if m.stats.Tables == nil {
		m.stats.Tables = make(map[string]*TableStats)
	}
	m.stats.Tables[tableName] = &TableStats{
		TableName:      tableName,
		SkippedRecords: []SkippedRecord{},
		ErrorRecords:   []ErrorRecord{},
	}
}

func (m *Migrator) recordProcessed(tableName string) {
	if stats, exists := m.stats.Tables[tableName]; exists {
		stats.Processed++
	}
}

func (m *Migrator) recordSuccessful(tableName string) {
	if stats, exists := m.stats.Tables[tableName]; exists {
		stats.Successful++
	}
}

func (m *Migrator) recordSkipped(tableName, reason string, record interface{}) {
	stats, exists := m.stats.Tables[tableName]
	if !exists {
		return
	}
	stats.Skipped++

	data, err := json.Marshal(record)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", record))
	}
	stats.SkippedRecords = append(stats.SkippedRecords, SkippedRecord{
		Reason:    reason,
		Data:      string(data),
		Timestamp: time.Now(),
	})
}
