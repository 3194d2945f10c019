package constant

// Classifier markers. The classifier output is lowercased before matching.
const (
	IntentCompanyData   = "data_perusahaan"
	IntentGeneralTopic  = "pengetahuan_umum"
	IntentContinuation  = "lanjutan"
	HistoryUserPrefix   = "Pengguna: "
	HistoryAIPrefix     = "AI: "
	EmptyHistoryLabel   = "(belum ada percakapan sebelumnya)"
	EmptyResultMessage  = "Kueri berhasil dieksekusi tetapi tidak menghasilkan data."
	DataOnlyAIMessage   = "Berikut adalah hasil data yang Anda minta."
	TruncatedRowsFormat = "(menampilkan %d dari %d baris)"

	TruncatedFirstRowFormat = "(baris pertama dipotong menjadi %d karakter)"
)

// Placeholders substituted into the templates below.
const (
	PlaceholderQuestion = "{nl_query}"
	PlaceholderContext  = "{context}"
	PlaceholderHistory  = "{conversation_history}"
	PlaceholderDataRaw  = "{data_raw}"
)

const QuestionClassificationPrompt = `Anda adalah sebuah AI klasifikasi. Klasifikasikan pertanyaan pengguna ke dalam salah satu dari dua kategori berikut:
1. "data_perusahaan": Jika pertanyaan berkaitan dengan anggaran, realisasi, sisa dana, kegiatan, unit kerja, sasaran strategis, program, atau data internal lainnya.
2. "pengetahuan_umum": Jika pertanyaan adalah tentang topik lain di luar data perusahaan.
Hanya kembalikan SATU KATA nama kategori dan tidak ada yang lain.
Pertanyaan Pengguna: {nl_query}
Kategori:`

const QuestionClassificationConversationPrompt = `Anda adalah sebuah AI klasifikasi di dalam sebuah percakapan. Klasifikasikan pertanyaan terbaru pengguna ke dalam salah satu dari tiga kategori berikut:
1. "data_perusahaan": Jika pertanyaan berkaitan dengan anggaran, realisasi, sisa dana, kegiatan, unit kerja, sasaran strategis, program, atau data internal lainnya.
2. "lanjutan": Jika pertanyaan merupakan kelanjutan, koreksi, atau penyempitan dari pertanyaan data sebelumnya di riwayat percakapan (misalnya "kalau yang terkecil?", "urutkan berdasarkan realisasi").
3. "pengetahuan_umum": Jika pertanyaan adalah tentang topik lain di luar data perusahaan.
Hanya kembalikan SATU KATA nama kategori dan tidak ada yang lain.
Riwayat Percakapan:
{conversation_history}
Pertanyaan Pengguna: {nl_query}
Kategori:`

const sqlRules = `Anda adalah asisten AI yang bertugas mengubah bahasa natural menjadi query SQL yang valid untuk tabel bernama ` + "`drauk_unit`, `drauk_unit_lengkap`, `drauk_unit_prognosis`" + `.
ATURAN PALING PENTING:
1. Jangan mengarang atau mengubah nama kolom maupun nama tabel. Gunakan hanya yang ada di "Konteks Skema".
2. PENULISAN NAMA KOLOM HARUS SAMA PERSIS (case-sensitive). Jangan mengubah ` + "`Kegiatan_Unit` menjadi `kegiatan_unit`" + `.
3. Gunakan "Konteks Skema" di bawah ini untuk memahami arti setiap kolom.
4. Untuk permintaan "terbesar", "tertinggi", gunakan ` + "`ORDER BY ... DESC LIMIT ...`" + `.
5. Untuk permintaan "terkecil", "terendah", gunakan ` + "`ORDER BY ... ASC LIMIT ...`" + `.
6. Jika jumlah baris tidak disebutkan untuk permintaan peringkat, gunakan LIMIT 5.
7. Kembalikan HANYA string query SQL mentah, tanpa format markdown.
8. Hasilkan tepat SATU statement SELECT dan gunakan ` + "`;`" + ` di akhir query.
9. Gunakan ` + "`LIKE`" + ` untuk pencarian teks parsial dan ` + "`=`" + ` untuk kolom kategori.
10. Gunakan ` + "`AND`" + ` untuk menggabungkan beberapa kondisi dan ` + "`OR`" + ` untuk kondisi alternatif di ` + "`WHERE`" + `.
11. Gunakan ` + "`BETWEEN ... AND ...`" + ` untuk rentang nilai dan ` + "`IN (...)`" + ` untuk mencocokkan beberapa nilai.
12. Gunakan ` + "`IS NULL` atau `IS NOT NULL`" + ` untuk memeriksa nilai kosong.
13. Gunakan ` + "`COUNT(...)`, `SUM(...)`, `AVG(...)`, `MIN(...)`, `MAX(...)`" + ` untuk agregasi.
14. Jangan gunakan ` + "`*`" + ` untuk memilih semua kolom, pilih kolom secara eksplisit.
15. Jangan melakukan JOIN antar tabel ` + "`drauk_unit`, `drauk_unit_lengkap`, dan `drauk_unit_prognosis`" + `.
16. Buat query yang efisien dan hindari slow query.
Konteks Skema:
{context}
`

const SQLGenerationPrompt = sqlRules + `Pertanyaan Pengguna: {nl_query}
Query SQL:`

const SQLGenerationConversationPrompt = sqlRules + `Riwayat Percakapan (gunakan untuk memahami pertanyaan lanjutan):
{conversation_history}
Pertanyaan Pengguna: {nl_query}
Query SQL:`

const reasoningTask = `Tugas Anda:
Buat **satu paragraf ringkas** dalam bahasa Indonesia yang profesional dan mudah dimengerti, yang menjawab pertanyaan pengguna HANYA berdasarkan data di atas. Fokus pada poin-poin utama atau temuan kunci dari data. **Jangan gunakan** format daftar, poin-poin, markdown (#, *, -, dll), atau simbol-simbol lainnya. Jika data kosong, nyatakan bahwa tidak ada data yang ditemukan untuk pertanyaan tersebut.

Ringkasan Eksekutif:`

const ReasoningPrompt = `Anda adalah asisten AI yang bertugas menyajikan ringkasan data untuk level eksekutif.

Pertanyaan Pengguna:
"{nl_query}"

Data Hasil Kueri:
{data_raw}

` + reasoningTask

const ReasoningConversationPrompt = `Anda adalah asisten AI yang bertugas menyajikan ringkasan data untuk level eksekutif di dalam sebuah percakapan.

Riwayat Percakapan:
{conversation_history}

Pertanyaan Pengguna:
"{nl_query}"

Data Hasil Kueri:
{data_raw}

` + reasoningTask
