package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Lab      *labConfig
	Host     *hostConfig
	Guest    *guestConfig
	LogLevel string `envconfig:"POWERLAB_LOG_LEVEL" default:"info"`
}

// labConfig carries the lab-wide defaults. Every value can be overridden
// per call; nothing here is hidden module state.
type labConfig struct {
	ProjectRoot   string `envconfig:"POWERLAB_PROJECT_ROOT" default:"C:/PowerLab"`
	VMPath        string `envconfig:"POWERLAB_VM_PATH" default:"C:/PowerLab/VMs"`
	VHDPath       string `envconfig:"POWERLAB_VHD_PATH" default:"C:/PowerLab/VHDs"`
	ISORoot       string `envconfig:"POWERLAB_ISO_ROOT" default:"C:/PowerLab/ISOs"`
	AnswerFileDir string `envconfig:"POWERLAB_ANSWER_FILE_DIR" default:"answerfiles"`
	SwitchName    string `envconfig:"POWERLAB_SWITCH_NAME" default:"PowerLab"`
	SwitchType    string `envconfig:"POWERLAB_SWITCH_TYPE" default:"External"`
	VMMemoryMB    int64  `envconfig:"POWERLAB_VM_MEMORY_MB" default:"4096"`
	VMGeneration  int    `envconfig:"POWERLAB_VM_GENERATION" default:"2"`
	VHDSizeGB     int64  `envconfig:"POWERLAB_VHD_SIZE_GB" default:"50"`
	VHDSizing     string `envconfig:"POWERLAB_VHD_SIZING" default:"Dynamic"`
}

// hostConfig addresses the virtualization host API.
type hostConfig struct {
	Endpoint     string `envconfig:"POWERLAB_HOST_ENDPOINT" default:"https://localhost/sdk"`
	Username     string `envconfig:"POWERLAB_HOST_USERNAME" default:"administrator"`
	Password     string `envconfig:"POWERLAB_HOST_PASSWORD" default:""`
	Insecure     bool   `envconfig:"POWERLAB_HOST_INSECURE" default:"true"`
	Datacenter   string `envconfig:"POWERLAB_HOST_DATACENTER" default:""`
	Datastore    string `envconfig:"POWERLAB_HOST_DATASTORE" default:""`
	ResourcePool string `envconfig:"POWERLAB_HOST_RESOURCE_POOL" default:""`
}

// guestConfig is the default credential used for remote sessions into
// freshly installed guests.
type guestConfig struct {
	Username string `envconfig:"POWERLAB_GUEST_USERNAME" default:"Administrator"`
	Password string `envconfig:"POWERLAB_GUEST_PASSWORD" default:""`
	Port     string `envconfig:"POWERLAB_GUEST_PORT" default:"22"`
	TempDir  string `envconfig:"POWERLAB_GUEST_TEMP_DIR" default:"C:/Windows/Temp"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			singleConfig = nil
			return nil, err
		}
	}
	return singleConfig, nil
}
