//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

const (
	siidFolder         = 3
	shgsiIconLocation  = 0
	loadAsImageFlags   = windows.LOAD_LIBRARY_AS_DATAFILE | windows.LOAD_LIBRARY_AS_IMAGE_RESOURCE
	shellMaxIconPixels = 256
)

var (
	shell32                = windows.NewLazySystemDLL("shell32.dll")
	procSHGetStockIconInfo = shell32.NewProc("SHGetStockIconInfo")
)

// shStockIconInfo mirrors SHSTOCKICONINFO.
type shStockIconInfo struct {
	cbSize         uint32
	hIcon          windows.Handle
	iSysImageIndex int32
	iIcon          int32
	szPath         [windows.MAX_PATH]uint16
}

// Ensure ShellLoader implements Loader at compile time.
var _ Loader = (*ShellLoader)(nil)

// ShellLoader reads the stock folder icon from the Windows shell. It asks
// the shell where the icon lives, opens that module as a data file and
// decodes every image of the icon group.
type ShellLoader struct{}

// Name returns "shell".
func (*ShellLoader) Name() string { return SourceShell }

// Load resolves SIID_FOLDER and decodes its RT_GROUP_ICON resource.
func (*ShellLoader) Load(opts LoadOptions) ([]icon.Image, error) {
	log := opts.logger().With("source", SourceShell)

	if err := procSHGetStockIconInfo.Find(); err != nil {
		return nil, errors.Wrap(err, "locating SHGetStockIconInfo")
	}

	var info shStockIconInfo
	info.cbSize = uint32(unsafe.Sizeof(info))
	hr, _, _ := procSHGetStockIconInfo.Call(siidFolder, shgsiIconLocation, uintptr(unsafe.Pointer(&info)))
	if hr != 0 {
		return nil, errors.Newf("SHGetStockIconInfo failed: HRESULT 0x%08x", uint32(hr))
	}

	path := windows.UTF16ToString(info.szPath[:])
	if info.iIcon >= 0 {
		return nil, errors.Newf("stock folder icon at %s uses index %d, only resource IDs are supported", path, info.iIcon)
	}
	groupID := windows.ResourceID(-info.iIcon)
	log.Debug("stock folder icon located", "module", path, "group", groupID)

	mod, err := windows.LoadLibraryEx(path, 0, loadAsImageFlags)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	defer windows.FreeLibrary(mod)

	groupData, err := loadResource(mod, groupID, windows.RT_GROUP_ICON)
	if err != nil {
		return nil, errors.Wrapf(err, "reading icon group %d", groupID)
	}
	entries, err := parseGroupIcon(groupData)
	if err != nil {
		return nil, err
	}

	var images []icon.Image
	for _, e := range entries {
		if e.Width > shellMaxIconPixels {
			continue
		}
		data, err := loadResource(mod, windows.ResourceID(e.ID), windows.RT_ICON)
		if err != nil {
			log.Debug("skipping icon resource", "id", e.ID, "error", err)
			continue
		}
		m, err := decodeIconImage(data)
		if err != nil {
			log.Debug("skipping icon resource", "id", e.ID, "bits", e.BitCount, "error", err)
			continue
		}
		images = append(images, icon.Image{Pixels: m, Scale: 1})
	}

	images = keepSizes(images, opts.Sizes)
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

// loadResource returns a copy of a resource's bytes; the mapped view is
// released with the module.
func loadResource(mod windows.Handle, id windows.ResourceID, typ windows.ResourceID) ([]byte, error) {
	res, err := windows.FindResource(mod, id, typ)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	data, err := windows.LoadResourceData(mod, res)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
