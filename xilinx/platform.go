package xilinx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
)

// Platform metadata failure modes.
var (
	ErrNoPlatformInfo = errors.New("cannot parse platform")
	ErrNoClockPeriod  = errors.New("cannot find clock period in platform")
	ErrNoPartNumber   = errors.New("cannot find part number in platform")
)

// DeviceInfo is the synthesis target extracted from a platform bundle.
type DeviceInfo struct {
	ClockPeriod string
	PartNum     string
}

// The platform metadata document lives in the http://www.xilinx.com/xd
// namespace, on elements and attributes alike.
type hpfmDocument struct {
	Component hpfmComponent `xml:"http://www.xilinx.com/xd component"`
}

type hpfmComponent struct {
	PlatformInfo *hpfmPlatformInfo `xml:"http://www.xilinx.com/xd platformInfo"`
}

type hpfmPlatformInfo struct {
	SystemClocks hpfmSystemClocks `xml:"http://www.xilinx.com/xd systemClocks"`
	DeviceInfo   *hpfmDeviceInfo  `xml:"http://www.xilinx.com/xd deviceInfo"`
}

type hpfmSystemClocks struct {
	Clocks []hpfmClock `xml:"http://www.xilinx.com/xd clock"`
}

type hpfmClock struct {
	ID     string `xml:"http://www.xilinx.com/xd id,attr"`
	Period string `xml:"http://www.xilinx.com/xd period,attr"`
}

type hpfmDeviceInfo struct {
	Name string `xml:"http://www.xilinx.com/xd name,attr"`
}

// GetDeviceInfo extracts the part number and the default clock period
// from the platform bundle rooted at platformPath. The bundle stores
// its metadata as <base>.hpfm inside the hw/<base>.dsa zip archive,
// where <base> is the platform directory name.
func GetDeviceInfo(platformPath string) (DeviceInfo, error) {
	base := filepath.Base(platformPath)
	reader, err := zip.OpenReader(filepath.Join(platformPath, "hw", base+".dsa"))
	if err != nil {
		return DeviceInfo{}, err
	}
	defer reader.Close()

	metadata, err := reader.Open(base + ".hpfm")
	if err != nil {
		return DeviceInfo{}, err
	}
	defer metadata.Close()
	return parseDeviceInfo(metadata)
}

func parseDeviceInfo(r io.Reader) (DeviceInfo, error) {
	var document hpfmDocument
	if err := xml.NewDecoder(r).Decode(&document); err != nil {
		return DeviceInfo{}, fmt.Errorf("%w: %s", ErrNoPlatformInfo, err)
	}
	platformInfo := document.Component.PlatformInfo
	if platformInfo == nil {
		return DeviceInfo{}, ErrNoPlatformInfo
	}

	var info DeviceInfo
	for _, clock := range platformInfo.SystemClocks.Clocks {
		if clock.ID == "0" {
			info.ClockPeriod = clock.Period
			break
		}
	}
	if info.ClockPeriod == "" {
		return DeviceInfo{}, ErrNoClockPeriod
	}
	if platformInfo.DeviceInfo != nil {
		info.PartNum = platformInfo.DeviceInfo.Name
	}
	if info.PartNum == "" {
		return DeviceInfo{}, ErrNoPartNumber
	}
	return info, nil
}
