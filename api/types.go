// Copyright 2025 AUTHORS
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"os"
	"time"

	digest "github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// Port is one published or exposed container port, as returned by
// ContainerList and ContainerInspect.
type Port struct {
	IP          string `json:"ip,omitempty"`
	PrivatePort uint16 `json:"private-port"`
	PublicPort  uint16 `json:"public-port,omitempty"`
	Type        string `json:"type"`
}

// ContainerSummary is one entry of ContainerList's result.
type ContainerSummary struct {
	ID         string            `json:"id"`
	Names      []string          `json:"names"`
	Image      string            `json:"image"`
	ImageID    string            `json:"image-id"`
	Command    string            `json:"command"`
	Created    int64             `json:"created"`
	Ports      []Port            `json:"ports"`
	Labels     map[string]string `json:"labels"`
	State      string            `json:"state"`
	Status     string            `json:"status"`
	HostConfig struct {
		NetworkMode string `json:"network-mode"`
	} `json:"host-config"`
}

// ContainerJSON is ContainerInspect's result: the subset of the daemon's
// inspect payload this client cares about.
type ContainerJSON struct {
	ID              string          `json:"id"`
	Created         time.Time       `json:"created"`
	Path            string          `json:"path"`
	Args            []string        `json:"args"`
	State           ContainerState  `json:"state"`
	Image           string          `json:"image"`
	Name            string          `json:"name"`
	RestartCount    int             `json:"restart-count"`
	Platform        string          `json:"platform"`
	Config          ContainerConfig `json:"config"`
	NetworkSettings NetworkSettings `json:"network-settings"`
	Mounts          []MountPoint    `json:"mounts"`
}

type ContainerState struct {
	Status     string    `json:"status"`
	Running    bool      `json:"running"`
	Paused     bool      `json:"paused"`
	Restarting bool      `json:"restarting"`
	OOMKilled  bool      `json:"oom-killed"`
	Dead       bool      `json:"dead"`
	Pid        int       `json:"pid"`
	ExitCode   int       `json:"exit-code"`
	Error      string    `json:"error"`
	StartedAt  time.Time `json:"started-at"`
	FinishedAt time.Time `json:"finished-at"`
}

type ContainerConfig struct {
	Hostname     string            `json:"hostname"`
	Image        string            `json:"image"`
	Env          []string          `json:"env"`
	Cmd          []string          `json:"cmd"`
	Entrypoint   []string          `json:"entrypoint"`
	WorkingDir   string            `json:"working-dir"`
	Labels       map[string]string `json:"labels"`
	Tty          bool              `json:"tty"`
	OpenStdin    bool              `json:"open-stdin"`
	AttachStdin  bool              `json:"attach-stdin"`
	AttachStdout bool              `json:"attach-stdout"`
	AttachStderr bool              `json:"attach-stderr"`
}

type NetworkSettings struct {
	Networks map[string]EndpointSettings `json:"networks"`
	Ports    map[string][]Port           `json:"ports"`
}

type EndpointSettings struct {
	NetworkID string `json:"network-id"`
	IPAddress string `json:"ip-address"`
	Gateway   string `json:"gateway"`
}

type MountPoint struct {
	Type        string `json:"type"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	RW          bool   `json:"rw"`
}

// ContainerCreateConfig is ContainerCreate's request body.
type ContainerCreateConfig struct {
	Hostname     string            `json:"hostname,omitempty"`
	Image        string            `json:"image"`
	Env          []string          `json:"env,omitempty"`
	Cmd          []string          `json:"cmd,omitempty"`
	Entrypoint   []string          `json:"entrypoint,omitempty"`
	WorkingDir   string            `json:"working-dir,omitempty"`
	Labels       map[string]string `json:"labels,omitempty"`
	Tty          bool              `json:"tty,omitempty"`
	OpenStdin    bool              `json:"open-stdin,omitempty"`
	AttachStdin  bool              `json:"attach-stdin,omitempty"`
	AttachStdout bool              `json:"attach-stdout,omitempty"`
	AttachStderr bool              `json:"attach-stderr,omitempty"`
	ExposedPorts map[string]struct{} `json:"exposed-ports,omitempty"`
	HostConfig   *HostConfig         `json:"host-config,omitempty"`
}

type HostConfig struct {
	Binds         []string                 `json:"binds,omitempty"`
	NetworkMode   string                   `json:"network-mode,omitempty"`
	PortBindings  map[string][]PortBinding `json:"port-bindings,omitempty"`
	AutoRemove    bool                     `json:"auto-remove,omitempty"`
	RestartPolicy RestartPolicy            `json:"restart-policy,omitempty"`
}

type PortBinding struct {
	HostIP   string `json:"host-ip,omitempty"`
	HostPort string `json:"host-port,omitempty"`
}

type RestartPolicy struct {
	Name              string `json:"name,omitempty"`
	MaximumRetryCount int    `json:"maximum-retry-count,omitempty"`
}

// ContainerCreateResult is ContainerCreate's response body.
type ContainerCreateResult struct {
	ID       string   `json:"id"`
	Warnings []string `json:"warnings"`
}

// ContainerWaitResult is ContainerWait's response body.
type ContainerWaitResult struct {
	StatusCode int `json:"status-code"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FilesystemChange is one entry of ContainerChanges' result.
type FilesystemChange struct {
	Path string `json:"path"`
	Kind int    `json:"kind"`
}

// PathStat is the decoded form of the daemon's X-Docker-Container-Path-Stat
// response header (ContainerArchiveInfo): filesystem metadata for a single
// path inside a container, without transferring its contents. Unlike every
// other response type in this file, the daemon emits this as a header
// value rather than a JSON body, so it keeps Docker's own wire-key casing
// instead of going through the namekey transform.
type PathStat struct {
	Name       string      `json:"name"`
	Size       int64       `json:"size"`
	Mode       os.FileMode `json:"mode"`
	Mtime      time.Time   `json:"mtime"`
	LinkTarget string      `json:"linkTarget,omitempty"`
}

// ImageSummary is one entry of ImageList's result.
type ImageSummary struct {
	ID          string            `json:"id"`
	ParentID    string            `json:"parent-id"`
	RepoTags    []string          `json:"repo-tags"`
	RepoDigests []string          `json:"repo-digests"`
	Created     int64             `json:"created"`
	Size        int64             `json:"size"`
	Labels      map[string]string `json:"labels"`
}

// Digest parses the image's content digest from its canonical "sha256:..."
// ID form (opencontainers/go-digest, the teacher pack's shared image
// identity type).
func (s ImageSummary) Digest() (digest.Digest, error) {
	d := digest.Digest(s.ID)
	return d, d.Validate()
}

// ImageInspectResult is ImageInspect's response body.
type ImageInspectResult struct {
	ID           string          `json:"id"`
	RepoTags     []string        `json:"repo-tags"`
	RepoDigests  []string        `json:"repo-digests"`
	Size         int64           `json:"size"`
	Os           string          `json:"os"`
	Architecture string          `json:"architecture"`
	Config       ContainerConfig `json:"config"`
}

// Platform reports this image's OS/architecture as an
// opencontainers/image-spec Platform value, for comparison against
// runtime.GOOS/runtime.GOARCH or a pull's requested --platform.
func (r ImageInspectResult) Platform() ocispec.Platform {
	return ocispec.Platform{OS: r.Os, Architecture: r.Architecture}
}

// PullProgress is one line of ImagePull's streamed JSON-sequence body.
type PullProgress struct {
	Status         string `json:"status"`
	ID             string `json:"id,omitempty"`
	ProgressDetail struct {
		Current int64 `json:"current"`
		Total   int64 `json:"total"`
	} `json:"progress-detail,omitempty"`
	Progress string `json:"progress,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NetworkSummary is one entry of NetworkList's result.
type NetworkSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Scope      string            `json:"scope"`
	Labels     map[string]string `json:"labels"`
	Containers map[string]any    `json:"containers"`
}

// NetworkCreateConfig is NetworkCreate's request body.
type NetworkCreateConfig struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver,omitempty"`
	Internal   bool              `json:"internal,omitempty"`
	Attachable bool              `json:"attachable,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// NetworkCreateResult is NetworkCreate's response body.
type NetworkCreateResult struct {
	ID      string `json:"id"`
	Warning string `json:"warning"`
}

// Volume is one entry of VolumeList's result, and VolumeInspect's and
// VolumeCreate's response body.
type Volume struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver"`
	Mountpoint string            `json:"mountpoint"`
	CreatedAt  string            `json:"created-at"`
	Labels     map[string]string `json:"labels"`
	Scope      string            `json:"scope"`
}

// VolumeListResult is VolumeList's response body.
type VolumeListResult struct {
	Volumes  []Volume `json:"volumes"`
	Warnings []string `json:"warnings"`
}

// VolumeCreateConfig is VolumeCreate's request body.
type VolumeCreateConfig struct {
	Name   string            `json:"name,omitempty"`
	Driver string            `json:"driver,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// PruneResult is the shared shape of the three prune endpoints.
type PruneResult struct {
	ContainersDeleted []string `json:"containers-deleted,omitempty"`
	ImagesDeleted     []struct {
		Deleted  string `json:"deleted,omitempty"`
		Untagged string `json:"untagged,omitempty"`
	} `json:"images-deleted,omitempty"`
	VolumesDeleted []string `json:"volumes-deleted,omitempty"`
	SpaceReclaimed int64    `json:"space-reclaimed"`
}

// Info is Client.Info's response body: the fields this client surfaces.
type Info struct {
	ID                string `json:"id"`
	Containers        int    `json:"containers"`
	ContainersRunning int    `json:"containers-running"`
	Images            int    `json:"images"`
	Driver            string `json:"driver"`
	OperatingSystem   string `json:"operating-system"`
	OSType            string `json:"os-type"`
	Architecture      string `json:"architecture"`
	ServerVersion     string `json:"server-version"`
}

// Version is Client.Version's response body.
type Version struct {
	Version       string `json:"version"`
	APIVersion    string `json:"api-version"`
	MinAPIVersion string `json:"min-api-version"`
	GitCommit     string `json:"git-commit"`
	GoVersion     string `json:"go-version"`
	Os            string `json:"os"`
	Arch          string `json:"arch"`
}

// ExecCreateConfig is ExecCreate's request body.
type ExecCreateConfig struct {
	Cmd          []string `json:"cmd"`
	AttachStdin  bool     `json:"attach-stdin,omitempty"`
	AttachStdout bool     `json:"attach-stdout,omitempty"`
	AttachStderr bool     `json:"attach-stderr,omitempty"`
	Tty          bool     `json:"tty,omitempty"`
	Env          []string `json:"env,omitempty"`
	WorkingDir   string   `json:"working-dir,omitempty"`
	User         string   `json:"user,omitempty"`
	Privileged   bool     `json:"privileged,omitempty"`
}

// ExecCreateResult is ExecCreate's response body.
type ExecCreateResult struct {
	ID string `json:"id"`
}

// ExecInspectResult is ExecInspect's response body.
type ExecInspectResult struct {
	ID          string `json:"id"`
	Running     bool   `json:"running"`
	ExitCode    int    `json:"exit-code"`
	ContainerID string `json:"container-id"`
	Pid         int    `json:"pid"`
}

// ExecStartConfig is ExecStart's request body.
type ExecStartConfig struct {
	Detach bool `json:"detach,omitempty"`
	Tty    bool `json:"tty,omitempty"`
}

// ResizeOptions is the query shape shared by ContainerResize and ExecResize.
type ResizeOptions struct {
	Height uint `json:"height"`
	Width  uint `json:"width"`
}
