// File: pkg/config/defaults.go
package config

// Default values.
const (
	DefaultMaxSize        = "10MB"
	DefaultMaxFileSize    = "100MB"
	DefaultGitBoostMax    = 100
	DefaultMaxGitDepth    = 100
	DefaultOutputName     = "chunk"
	DefaultOutputTemplate = ">>>> FILE_PATH\nFILE_CONTENT"
)

// DefaultConfig returns a configuration with hardcoded defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxSize:        DefaultMaxSize,
		MaxFileSize:    DefaultMaxFileSize,
		GitBoostMax:    DefaultGitBoostMax,
		MaxGitDepth:    DefaultMaxGitDepth,
		OutputName:     DefaultOutputName,
		OutputTemplate: DefaultOutputTemplate,
	}
}

// DefaultIgnorePatterns are applied before user patterns and .gitignore files.
var DefaultIgnorePatterns = []string{
	"LICENSE",
	".git/**",
	".hg/**",
	".svn/**",
	".next/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"out/**",
	"target/**",
	"bin/**",
	"obj/**",
	".idea/**",
	".vscode/**",
	".vs/**",
	".settings/**",
	".gradle/**",
	".mvn/**",
	".pytest_cache/**",
	"__pycache__/**",
	".sass-cache/**",
	".vercel/**",
	".turbo/**",
	"coverage/**",
	"test-results/**",
	".gitignore",
	"pnpm-lock.yaml",
	"yek.toml",
	"yek.yaml",
	"yek.yml",
	"yek.json",
	"package-lock.json",
	"yarn.lock",
	"Cargo.lock",
	"Gemfile.lock",
	"composer.lock",
	"mix.lock",
	"poetry.lock",
	"Pipfile.lock",
	"packages.lock.json",
	"paket.lock",
	"go.sum",
	"*.pyc",
	"*.pyo",
	"*.pyd",
	"*.class",
	"*.o",
	"*.obj",
	"*.dll",
	"*.exe",
	"*.so",
	"*.dylib",
	"*.log",
	"*.tmp",
	"*.temp",
	"*.swp",
	"*.swo",
	".DS_Store",
	"Thumbs.db",
	".env*",
	"*.bak",
	"*~",
}

// BinaryExtensions is the built-in table of extensions (without the dot,
// lowercase) whose files are skipped without reading.
var BinaryExtensions = []string{
	// Executables, libraries, core dumps
	"exe", "dll", "so", "dylib", "ocx", "ax", "drv", "sys", "msi", "app", "ipa", "apk",
	"bin", "out", "a", "lib", "ko", "elf", "o", "nro", "core", "img", "iso",
	// Java / .NET
	"class", "jar", "war", "ear", "resources", "nupkg",
	// Archives and compressed
	"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "lz4", "lz", "zst", "lzma",
	"cab", "ar", "cpio", "rpm", "deb", "pkg", "crx", "dmg", "hfs", "cso",
	"bz", "tbz", "tbz2", "tlz", "txz", "z", "xapk",
	// Disk and container images
	"vhd", "vhdx", "vmdk", "vdi", "qcow", "qcow2", "mdf", "mds", "nrg", "uif",
	// Documents and office
	"pdf", "doc", "docx", "dot", "dotx", "docm", "dotm",
	"xls", "xlsx", "xlsm", "xlsb", "xlt", "xltx", "xltm", "xlc", "xlw",
	"ppt", "pptx", "pptm", "pps", "ppsx", "pot", "potx", "potm",
	"pub", "vsd", "vsdx", "accdb", "accde", "mdb", "mde",
	"odt", "ods", "odp", "odg", "odf", "pages", "numbers", "key", "rtf",
	// Databases and data
	"db", "sqlite", "db3", "s3db", "frm", "myd", "myi", "bak", "nsf", "gdb", "fdb", "wdb",
	// Images
	"jpg", "jpeg", "png", "gif", "bmp", "ico", "tiff", "tif", "webp", "jfif", "jp2",
	"psd", "psb", "xcf", "ai", "eps", "raw", "arw", "cr2", "nef", "dng", "raf", "orf",
	"sr2", "heic", "heif", "icns", "bpg",
	// Audio
	"mp3", "mp2", "aac", "ac3", "wav", "ogg", "oga", "flac", "alac", "m4a", "mp4a",
	"wma", "ra", "ram", "ape", "opus", "amr", "awb",
	// Video
	"mp4", "m4v", "mov", "avi", "wmv", "mkv", "flv", "f4v", "f4p", "f4a", "f4b", "3gp",
	"3g2", "mpeg", "mpg", "mpe", "m1v", "m2v", "mts", "m2ts", "vob", "rm", "rmvb",
	"asf", "ogv", "ogm", "webm", "dv", "divx", "xvid",
	// Fonts
	"ttf", "otf", "woff", "woff2", "eot", "fon", "psf",
	// Firmware, ROMs, game data
	"rom", "gba", "gbc", "nds", "n64", "z64", "v64", "gcm", "ciso", "wbfs",
	"pak", "wad", "dat", "sav", "rpx",
	// Flash, CAD, 3D
	"swf", "fla", "svgz", "dwg", "dxf", "dwf", "skp", "ifc",
	"stl", "obj", "fbx", "dae", "blend", "3ds", "ase", "glb",
	// E-books
	"epub", "mobi", "azw", "azw3", "fb2", "lrf", "lit", "pdb",
	// Other
	"swp", "swo", "pch", "xex", "dmp", "mdmp", "bkf", "bkp", "idx", "vcd",
	"hlp", "chm", "torrent", "mar", "aab", "appx", "xap",
}
