package constant

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

type JobType string

const (
	JobTypeRemux JobType = "remux"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

// ProcessingDriver selects where processing jobs are sent after an upload.
type ProcessingDriver string

const (
	ProcessingDriverLocal    ProcessingDriver = "local"
	ProcessingDriverRabbitMQ ProcessingDriver = "rabbitmq"
	ProcessingDriverNone     ProcessingDriver = "none"
)

type DBDriver string

const (
	DBDriverMemory   DBDriver = "memory"
	DBDriverPostgres DBDriver = "postgres"
)

// DefaultMediaType is served when the stored bytes give no better answer.
const DefaultMediaType = "video/mp4"
